package imageio

import "github.com/pkg/errors"

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrNotADir       = errors.New("not a directory")
	ErrImageTooLarge = errors.New("image too large")
)
