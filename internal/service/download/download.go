package download

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jgivc/anexofetch/internal/entity"
	"github.com/jgivc/anexofetch/internal/util"
)

const (
	serviceName = "download"
)

type DownloadStorage interface {
	Download(ctx context.Context, links []*entity.Link) ([]*entity.DownloadResult, error)
}

type downloadService struct {
	origin  string
	destDir string
	store   DownloadStorage
	log     *slog.Logger
}

func NewDownloadService(origin, destDir string, store DownloadStorage, log *slog.Logger) *downloadService {
	return &downloadService{
		origin:  origin,
		destDir: destDir,
		store:   store,
		log:     log.With(slog.String("service", serviceName)),
	}
}

// Resolve turns an href into an absolute URL and a destination path.
func (d *downloadService) Resolve(href string) (*entity.Link, error) {
	name, err := util.FileName(href)
	if err != nil {
		return nil, fmt.Errorf("cannot get file name from %q: %w", href, err)
	}

	return &entity.Link{
		Href:     href,
		URL:      util.ResolveURL(d.origin, href),
		FileName: name,
		Path:     filepath.Join(d.destDir, name),
	}, nil
}

// Download attempts every href and returns one result per href, in order.
// Per-item failures are reported in the results, never as an error.
func (d *downloadService) Download(ctx context.Context, hrefs []string) ([]*entity.DownloadResult, error) {
	results := make([]*entity.DownloadResult, len(hrefs))

	var (
		links []*entity.Link
		slots []int
	)
	for i, href := range hrefs {
		link, err := d.Resolve(href)
		if err != nil {
			d.log.Error("Cannot resolve link", slog.String("href", href), slog.Any("error", err))
			results[i] = &entity.DownloadResult{
				Link:   &entity.Link{Href: href},
				Status: entity.StatusFailed,
				Err:    err,
			}

			continue
		}

		d.log.Debug("Resolved link", slog.String("href", href), slog.String("url", link.URL))
		links = append(links, link)
		slots = append(slots, i)
	}

	downloaded, err := d.store.Download(ctx, links)
	if err != nil {
		d.log.Error("Cannot download links", slog.Any("error", err))

		return nil, fmt.Errorf("cannot download links: %w", err)
	}

	for j, res := range downloaded {
		results[slots[j]] = res
	}

	return results, nil
}
