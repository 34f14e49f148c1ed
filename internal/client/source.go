package client

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
)

// FileSource captures "microphone" input from a WAV file, which is how
// the terminal client records. A missing or unreadable file maps to
// ErrPermissionDenied, the same refusal a browser microphone prompt
// produces.
type FileSource struct {
	Path string
}

func (f FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}
	return file, nil
}

// FilePlayer plays a recording by writing it to a file for an external
// player to pick up.
type FilePlayer struct {
	Path string
}

func (p FilePlayer) Play(data []byte) error {
	return os.WriteFile(p.Path, data, 0o644)
}
