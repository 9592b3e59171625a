package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/anexofetch/internal/config"
	"github.com/jgivc/anexofetch/internal/entity"
)

type FileStorage interface {
	Scan(dir, ext string) ([]*entity.File, error)
}

type ArchiveWriter interface {
	WriteArchive(path string, files []*entity.File) (*entity.Archive, error)
}

type Config struct {
	Dir       string
	Extension string
	Path      string
	Mode      string
}

type ArchiveService struct {
	store  FileStorage
	writer ArchiveWriter
	cfg    *Config
	log    *slog.Logger
}

func NewArchiveService(store FileStorage, writer ArchiveWriter, cfg *Config, log *slog.Logger) *ArchiveService {
	return &ArchiveService{
		store:  store,
		writer: writer,
		cfg:    cfg,
		log:    log.With(slog.String("item", "ArchiveService")),
	}
}

// Archive writes the archive. In directory mode it holds every matching file
// of the destination directory, otherwise only the files downloaded in results.
func (s *ArchiveService) Archive(ctx context.Context, results []*entity.DownloadResult) (*entity.Archive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var files []*entity.File
	switch s.cfg.Mode {
	case config.ArchiveModeRun:
		files = downloadedFiles(results)
	default:
		scanned, err := s.store.Scan(s.cfg.Dir, s.cfg.Extension)
		if err != nil {
			s.log.Error("Cannot scan", slog.String("dir", s.cfg.Dir), slog.Any("error", err))

			return nil, fmt.Errorf("cannot scan %s: %w", s.cfg.Dir, err)
		}

		files = scanned
	}

	s.log.Info("Archive files", slog.String("mode", s.cfg.Mode), slog.Int("count", len(files)))

	archive, err := s.writer.WriteArchive(s.cfg.Path, files)
	if err != nil {
		s.log.Error("Cannot write archive", slog.String("path", s.cfg.Path), slog.Any("error", err))

		return nil, fmt.Errorf("cannot write archive: %w", err)
	}

	for _, name := range archive.Entries {
		s.log.Info("Added to archive", slog.String("name", name))
	}

	return archive, nil
}

func downloadedFiles(results []*entity.DownloadResult) []*entity.File {
	seen := make(map[string]struct{})

	var files []*entity.File
	for _, res := range results {
		if !res.OK() {
			continue
		}

		if _, exists := seen[res.Link.Path]; exists {
			continue
		}
		seen[res.Link.Path] = struct{}{}

		files = append(files, &entity.File{
			Name: res.Link.FileName,
			Path: res.Link.Path,
			Size: res.Size,
		})
	}

	return files
}
