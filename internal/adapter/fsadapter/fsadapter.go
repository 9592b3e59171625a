package fsadapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgivc/anexofetch/internal/entity"
	"github.com/spf13/afero"
)

const (
	dirPerm          = 0755
	filePerm         = 0644
	tempFileSuffix   = ".part"
	defaultChunkSize = 1024
)

type fsAdapter struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewFSAdapter(fs afero.Fs, log *slog.Logger) *fsAdapter {
	return &fsAdapter{
		fs:  fs,
		log: log.With(slog.String("item", "FSAdapter")),
	}
}

func (a *fsAdapter) MkdirAll(dir string) error {
	if err := a.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	return nil
}

// WriteFile copies r to path in chunks of chunkSize bytes. Data goes to a
// temporary file in the same directory which then replaces path, so an
// existing file is overwritten only after a complete copy.
func (a *fsAdapter) WriteFile(path string, r io.Reader, chunkSize int) (int64, error) {
	if chunkSize < 1 {
		chunkSize = defaultChunkSize
	}

	var written int64
	err := a.replace(path, func(w io.Writer) error {
		buf := make([]byte, chunkSize)
		for {
			n, rerr := r.Read(buf)
			if n > 0 {
				m, werr := w.Write(buf[:n])
				written += int64(m)
				if werr != nil {
					return fmt.Errorf("cannot write: %w", werr)
				}
			}

			if rerr == io.EOF {
				return nil
			}

			if rerr != nil {
				return fmt.Errorf("cannot read: %w", rerr)
			}
		}
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

// Scan lists regular files directly inside dir whose names end with ext,
// sorted by name.
func (a *fsAdapter) Scan(dir, ext string) ([]*entity.File, error) {
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	var files []*entity.File
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}

		files = append(files, &entity.File{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: entry.Size(),
		})
	}

	return files, nil
}

func (a *fsAdapter) replace(path string, write func(w io.Writer) error) error {
	tmp, err := afero.TempFile(a.fs, filepath.Dir(path), filepath.Base(path)+".*"+tempFileSuffix)
	if err != nil {
		return fmt.Errorf("cannot create temp file: %w", err)
	}

	tmpName := tmp.Name()
	cleanup := func() {
		if err := a.fs.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			a.log.Warn("Cannot remove temp file", slog.String("path", tmpName), slog.Any("error", err))
		}
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		cleanup()

		return err
	}

	if err := tmp.Close(); err != nil {
		cleanup()

		return fmt.Errorf("cannot close temp file: %w", err)
	}

	// Temp files are created owner-only.
	if err := a.fs.Chmod(tmpName, filePerm); err != nil {
		cleanup()

		return fmt.Errorf("cannot chmod %s: %w", tmpName, err)
	}

	if err := a.fs.Rename(tmpName, path); err != nil {
		cleanup()

		return fmt.Errorf("cannot move %s to %s: %w", tmpName, path, err)
	}

	return nil
}
