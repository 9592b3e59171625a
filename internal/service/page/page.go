package page

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/anexofetch/internal/common"
)

const (
	serviceName = "page"
)

type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

type LinkParser interface {
	Links(html string) ([]string, error)
}

type pageService struct {
	url     string
	fetcher PageFetcher
	parser  LinkParser
	log     *slog.Logger
}

func NewPageService(url string, fetcher PageFetcher, parser LinkParser, log *slog.Logger) *pageService {
	return &pageService{
		url:     url,
		fetcher: fetcher,
		parser:  parser,
		log:     log.With(slog.String("service", serviceName)),
	}
}

// GetLinks returns the matching hrefs of the source page, or
// common.ErrNoLinksFound when there are none.
func (p *pageService) GetLinks(ctx context.Context) ([]string, error) {
	content, err := p.fetcher.FetchPage(ctx, p.url)
	if err != nil {
		p.log.Error("Cannot get page content", slog.String("url", p.url), slog.Any("error", err))

		return nil, fmt.Errorf("cannot get page %s content: %w", p.url, err)
	}

	links, err := p.parser.Links(content)
	if err != nil {
		return nil, fmt.Errorf("cannot get page %s links: %w", p.url, err)
	}

	if len(links) < 1 {
		return nil, common.ErrNoLinksFound
	}

	p.log.Info("Found links", slog.String("url", p.url), slog.Int("count", len(links)))

	return links, nil
}
