package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileTransport stores the envelope as a single file. Writes go through a
// temp file and rename so a crash mid-write cannot leave a torn envelope.
type FileTransport struct {
	path string
}

func NewFileTransport(path string) *FileTransport {
	return &FileTransport{path: path}
}

func (t *FileTransport) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoVault
		}

		return nil, fmt.Errorf("reading vault file: %w", err)
	}

	return data, nil
}

func (t *FileTransport) Store(_ context.Context, data []byte) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating vault directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vault-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("setting vault permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), t.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing vault file: %w", err)
	}

	return nil
}

func (t *FileTransport) Delete(_ context.Context) error {
	if err := os.Remove(t.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing vault file: %w", err)
	}

	return nil
}
