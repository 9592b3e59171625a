package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/anexofetch/internal/adapter/fsadapter"
	"github.com/jgivc/anexofetch/internal/adapter/htmladapter"
	"github.com/jgivc/anexofetch/internal/adapter/httpadapter"
	"github.com/jgivc/anexofetch/internal/adapter/reportadapter"
	"github.com/jgivc/anexofetch/internal/common"
	"github.com/jgivc/anexofetch/internal/config"
	"github.com/jgivc/anexofetch/internal/entity"
	"github.com/jgivc/anexofetch/internal/service/archive"
	srvdownload "github.com/jgivc/anexofetch/internal/service/download"
	"github.com/jgivc/anexofetch/internal/service/page"
	"github.com/jgivc/anexofetch/internal/service/report"
	"github.com/jgivc/anexofetch/internal/storage/download"
	"github.com/spf13/afero"
)

type Option func(*App)

func WithFS(fs afero.Fs) Option {
	return func(a *App) {
		a.fs = fs
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(a *App) {
		a.client = client
	}
}

type App struct {
	cfg    *config.Config
	fs     afero.Fs
	client *http.Client
	log    *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger, opts ...Option) *App {
	a := &App{
		cfg: cfg,
		fs:  afero.NewOsFs(),
		log: log,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		a.client = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return a
}

type FileStore interface {
	MkdirAll(dir string) error
	report.FileWriter
}

type PageService interface {
	GetLinks(ctx context.Context) ([]string, error)
}

type DownloadService interface {
	Resolve(href string) (*entity.Link, error)
	Download(ctx context.Context, hrefs []string) ([]*entity.DownloadResult, error)
}

type ArchiveService interface {
	Archive(ctx context.Context, results []*entity.DownloadResult) (*entity.Archive, error)
}

type services struct {
	fsa      FileStore
	page     PageService
	download DownloadService
	archive  ArchiveService
}

func (a *App) build(log *slog.Logger) *services {
	fsa := fsadapter.NewFSAdapter(a.fs, log)
	httpa := httpadapter.NewHTTPAdapter(a.client, &httpadapter.Config{
		UserAgent: a.cfg.UserAgent,
		RateLimit: a.cfg.RateLimit,
	}, log)
	filter := htmladapter.NewLinkFilter(a.cfg.Labels, a.cfg.Extension, log)

	store := download.NewDownloadStorage(httpa, fsa, &download.Config{
		Workers:   a.cfg.Workers,
		ChunkSize: a.cfg.ChunkSize,
	}, log)

	return &services{
		fsa:      fsa,
		page:     page.NewPageService(a.cfg.SourceURL, httpa, filter, log),
		download: srvdownload.NewDownloadService(a.cfg.Origin(), a.cfg.DestDir, store, log),
		archive: archive.NewArchiveService(fsa, fsa, &archive.Config{
			Dir:       a.cfg.DestDir,
			Extension: a.cfg.Extension,
			Path:      a.cfg.ArchivePath(),
			Mode:      a.cfg.ArchiveMode,
		}, log),
	}
}

// Run fetches the source page, downloads the matching attachments and
// archives them. Finding no links is not an error: the returned report then
// has no results and no archive.
func (a *App) Run(ctx context.Context) (*entity.Report, error) {
	rep := &entity.Report{
		RunID:     uuid.NewString(),
		SourceURL: a.cfg.SourceURL,
		StartedAt: time.Now(),
	}

	log := a.log.With(slog.String("run_id", rep.RunID))
	srv := a.build(log)

	if err := srv.fsa.MkdirAll(a.cfg.DestDir); err != nil {
		log.Error("Cannot prepare destination", slog.String("dir", a.cfg.DestDir), slog.Any("error", err))

		return nil, err
	}

	log.Info("Looking for attachments", slog.String("url", a.cfg.SourceURL), slog.Any("labels", a.cfg.Labels))

	links, err := srv.page.GetLinks(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoLinksFound) {
			log.Warn("No attachments found, check whether the labels changed", slog.Any("labels", a.cfg.Labels))
			rep.FinishedAt = time.Now()

			return rep, nil
		}

		return nil, err
	}
	rep.Links = links

	results, err := srv.download.Download(ctx, links)
	if err != nil {
		return nil, err
	}
	rep.Results = results

	arch, err := srv.archive.Archive(ctx, results)
	if err != nil {
		return nil, err
	}
	rep.Archive = arch
	rep.FinishedAt = time.Now()

	log.Info("Archive created",
		slog.String("path", arch.Path),
		slog.Int("entries", len(arch.Entries)),
		slog.Int("downloaded", rep.Downloaded()),
		slog.Int("failed", rep.Failed()),
		slog.Duration("elapsed", rep.FinishedAt.Sub(rep.StartedAt)),
	)

	if a.cfg.Report.Enabled {
		a.saveReport(ctx, srv, rep, log)
	}

	return rep, nil
}

// Links returns the matching links of the source page without downloading
// anything.
func (a *App) Links(ctx context.Context) ([]*entity.Link, error) {
	srv := a.build(a.log)

	hrefs, err := srv.page.GetLinks(ctx)
	if err != nil {
		return nil, err
	}

	links := make([]*entity.Link, 0, len(hrefs))
	for _, href := range hrefs {
		link, err := srv.download.Resolve(href)
		if err != nil {
			a.log.Warn("Cannot resolve link", slog.String("href", href), slog.Any("error", err))

			continue
		}

		links = append(links, link)
	}

	return links, nil
}

func (a *App) saveReport(ctx context.Context, srv *services, rep *entity.Report, log *slog.Logger) {
	renderer, err := reportadapter.NewReportAdapter()
	if err != nil {
		log.Error("Cannot create report renderer", slog.Any("error", err))

		return
	}

	rs := report.NewReportService(a.cfg.ReportPath(), renderer, srv.fsa, log)
	if err := rs.Save(ctx, rep); err != nil {
		log.Warn("Report was not saved", slog.Any("error", err))
	}
}
