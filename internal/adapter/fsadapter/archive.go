package fsadapter

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"

	"github.com/jgivc/anexofetch/internal/entity"
)

// WriteArchive writes files into a deflate compressed ZIP at path. Entries
// are named by file base name. An empty file list yields an empty archive.
func (a *fsAdapter) WriteArchive(path string, files []*entity.File) (*entity.Archive, error) {
	archive := &entity.Archive{
		Path:    path,
		Entries: make([]string, 0, len(files)),
	}

	err := a.replace(path, func(w io.Writer) error {
		zw := zip.NewWriter(w)

		for _, file := range files {
			if err := a.addFile(zw, file); err != nil {
				zw.Close()

				return err
			}

			archive.Entries = append(archive.Entries, file.Name)
			a.log.Debug("Add to archive", slog.String("name", file.Name))
		}

		if err := zw.Close(); err != nil {
			return fmt.Errorf("cannot finish archive: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return archive, nil
}

func (a *fsAdapter) addFile(zw *zip.Writer, file *entity.File) error {
	f, err := a.fs.Open(file.Path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", file.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", file.Path, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("cannot create header for %s: %w", file.Path, err)
	}

	header.Name = file.Name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("cannot add %s: %w", file.Name, err)
	}

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("cannot compress %s: %w", file.Path, err)
	}

	return nil
}
