// Package progress aggregates the progress of concurrently processed images and repaints it as one bar per image.
//
// Every image's progress is split evenly between the stages of the chain: finishing a stage moves the image to the
// next stage boundary and sub-progress reported by a running stage fills the space up to the following one.
package progress

import (
	"io"
	"os"
	"sort"
	"sync"
)

const DefaultBarSize = 50

// Record is the progress of one image.
type Record struct {
	Message        string
	ID             int
	Percent        int
	StagesFinished int
}

// Aggregator collects progress reports from every pipeline of a run. All methods are safe for concurrent use.
type Aggregator struct {
	out        io.Writer
	records    map[int]*Record
	mu         sync.Mutex
	barSize    int
	stageCount int
	clear      bool
}

type Option func(a *Aggregator)

// WithWriter sets where the bars are painted. Defaults to stdout.
func WithWriter(w io.Writer) Option {
	return func(a *Aggregator) {
		a.out = w
	}
}

// WithBarSize sets the number of cells of a bar.
func WithBarSize(size int) Option {
	return func(a *Aggregator) {
		if size > 0 {
			a.barSize = size
		}
	}
}

// WithClear clears the terminal when a run starts and moves the cursor home before every repaint.
func WithClear(clear bool) Option {
	return func(a *Aggregator) {
		a.clear = clear
	}
}

// New creates an aggregator with no records.
func New(opts ...Option) *Aggregator {
	agg := &Aggregator{
		out:     os.Stdout,
		records: make(map[int]*Record),
		barSize: DefaultBarSize,
	}

	for _, opt := range opts {
		opt(agg)
	}

	return agg
}

// Start drops the records of the previous run and creates one record per worker.
func (a *Aggregator) Start(workers, stageCount int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stageCount = max(stageCount, 1)
	a.records = make(map[int]*Record, workers)

	for id := 0; id < workers; id++ {
		a.records[id] = &Record{ID: id}
	}

	if a.clear {
		_, _ = io.WriteString(a.out, clearScreen)
	}

	a.repaint()
}

// SubProgress reports subPercent of the running stage of image id. Unknown ids are ignored.
func (a *Aggregator) SubProgress(id, subPercent int, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.records[id]
	if !ok {
		return
	}

	rec.Percent = subPercent/a.stageCount + rec.StagesFinished*100/a.stageCount
	rec.Message = message

	a.repaint()
}

// StageFinished moves image id past its current stage. Unknown ids are ignored.
func (a *Aggregator) StageFinished(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.records[id]
	if !ok {
		return
	}

	rec.StagesFinished++
	if rec.StagesFinished == a.stageCount {
		rec.Percent = 100
	}

	a.repaint()
}

// Snapshot returns a copy of every record ordered by id.
func (a *Aggregator) Snapshot() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Record, 0, len(a.records))
	for _, rec := range a.sorted() {
		out = append(out, *rec)
	}

	return out
}

func (a *Aggregator) sorted() []*Record {
	recs := make([]*Record, 0, len(a.records))
	for _, rec := range a.records {
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ID < recs[j].ID
	})

	return recs
}
