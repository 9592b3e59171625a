package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jgivc/anexofetch/internal/common"
	"github.com/jgivc/anexofetch/internal/entity"
)

type Fetcher interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

type FileWriter interface {
	WriteFile(path string, r io.Reader, chunkSize int) (int64, error)
}

type Config struct {
	Workers   int
	ChunkSize int
}

type downloadStorage struct {
	running atomic.Bool
	fetcher Fetcher
	writer  FileWriter
	cfg     *Config
	log     *slog.Logger
}

func NewDownloadStorage(fetcher Fetcher, writer FileWriter, cfg *Config, log *slog.Logger) *downloadStorage {
	return &downloadStorage{
		fetcher: fetcher,
		writer:  writer,
		cfg:     cfg,
		log:     log.With(slog.String("item", "DownloadStorage")),
	}
}

// Download fetches every link and returns one result per link in the same
// order. A failed link never stops the others.
func (s *downloadStorage) Download(ctx context.Context, links []*entity.Link) ([]*entity.DownloadResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, common.ErrDownloadAlreadyStarted
	}
	defer s.running.Store(false)

	results := make([]*entity.DownloadResult, len(links))
	if len(links) == 0 {
		return results, nil
	}

	workers := max(min(s.cfg.Workers, len(links)), 1)

	in := make(chan int, len(links))
	for i := range links {
		in <- i
	}
	close(in)

	var wg sync.WaitGroup
	wg.Add(workers)
	for n := 0; n < workers; n++ {
		go s.worker(ctx, n, links, results, in, &wg)
	}

	wg.Wait()

	return results, nil
}

func (s *downloadStorage) worker(ctx context.Context, n int, links []*entity.Link, results []*entity.DownloadResult, in chan int, wg *sync.WaitGroup) {
	defer wg.Done()

	log := s.log.With(slog.Int("worker_id", n))
	log.Debug("Started")

	for i := range in {
		link := links[i]

		select {
		case <-ctx.Done():
			results[i] = failed(link, ctx.Err())

			continue
		default:
		}

		results[i] = s.fetch(ctx, link)

		if res := results[i]; res.OK() {
			log.Info("Download completed", slog.String("path", link.Path), slog.Int64("size", res.Size))
		} else {
			log.Error("Cannot download", slog.String("url", link.URL), slog.Any("error", res.Err))
		}
	}

	log.Debug("Done")
}

func (s *downloadStorage) fetch(ctx context.Context, link *entity.Link) *entity.DownloadResult {
	body, err := s.fetcher.Open(ctx, link.URL)
	if err != nil {
		return failed(link, err)
	}
	defer body.Close()

	size, err := s.writer.WriteFile(link.Path, body, s.cfg.ChunkSize)
	if err != nil {
		return failed(link, fmt.Errorf("cannot save %s: %w", link.Path, err))
	}

	return &entity.DownloadResult{
		Link:   link,
		Size:   size,
		Status: entity.StatusDownloaded,
	}
}

func failed(link *entity.Link, err error) *entity.DownloadResult {
	return &entity.DownloadResult{
		Link:   link,
		Status: entity.StatusFailed,
		Err:    err,
	}
}
