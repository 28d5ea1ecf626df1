// Package imageio saves and loads images through afs, so that the save directory can be a local path or any URL afs
// supports (mem:// in tests, for instance).
package imageio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// DefaultPrefix names the files of images without an Output stage.
const DefaultPrefix = "default"

// FileName is the name image id is saved under.
func FileName(prefix string, id int) string {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}

	return fmt.Sprintf("%s_%d.jpeg", prefix, id+1)
}

// Resolve turns a local path into an absolute one. URLs are returned unchanged.
func Resolve(location string) (string, error) {
	if strings.Contains(location, "://") {
		return location, nil
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve %s", location)
	}

	return abs, nil
}

// Join resolves name against dir unless name is already absolute.
func Join(dir, name string) (string, error) {
	if strings.Contains(name, "://") || filepath.IsAbs(name) {
		return name, nil
	}

	base, err := Resolve(dir)
	if err != nil {
		return "", err
	}

	return url.Join(base, name), nil
}

// DirExists reports whether location is an existing directory.
func DirExists(ctx context.Context, fs afs.Service, location string) (bool, error) {
	resolved, err := Resolve(location)
	if err != nil {
		return false, err
	}

	ok, err := fs.Exists(ctx, resolved)
	if err != nil || !ok {
		return false, nil //nolint:nilerr // a location that cannot be checked does not exist
	}

	obj, err := fs.Object(ctx, resolved)
	if err != nil {
		return false, errors.Wrapf(err, "unable to stat %s", resolved)
	}

	return obj.IsDir(), nil
}
