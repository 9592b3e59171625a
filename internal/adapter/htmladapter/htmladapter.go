package htmladapter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jgivc/anexofetch/internal/entity"
)

const anchorSelector = "a[href]"

// LinkFilter keeps anchors whose href ends with the extension and whose text
// contains at least one of the labels. Matching is case-sensitive.
type LinkFilter struct {
	labels    []string
	extension string
	log       *slog.Logger
}

func NewLinkFilter(labels []string, extension string, log *slog.Logger) *LinkFilter {
	return &LinkFilter{
		labels:    labels,
		extension: extension,
		log:       log.With(slog.String("item", "LinkFilter")),
	}
}

// ParseAnchors returns every anchor with an href attribute in document order.
func ParseAnchors(html string) ([]*entity.Anchor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("cannot parse html: %w", err)
	}

	var anchors []*entity.Anchor
	doc.Find(anchorSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		anchors = append(anchors, &entity.Anchor{
			Href: href,
			Text: s.Text(),
		})
	})

	return anchors, nil
}

func (f *LinkFilter) Filter(anchors []*entity.Anchor) []string {
	links := make([]string, 0)
	for _, a := range anchors {
		if f.Match(a) {
			links = append(links, a.Href)
		}
	}

	return links
}

func (f *LinkFilter) Match(a *entity.Anchor) bool {
	if !strings.HasSuffix(a.Href, f.extension) {
		return false
	}

	for _, label := range f.labels {
		if strings.Contains(a.Text, label) {
			return true
		}
	}

	return false
}

// Links parses html and returns the matching hrefs, duplicates included.
func (f *LinkFilter) Links(html string) ([]string, error) {
	anchors, err := ParseAnchors(html)
	if err != nil {
		f.log.Error("Cannot parse page", slog.Any("error", err))

		return nil, err
	}

	links := f.Filter(anchors)
	f.log.Debug("Filter anchors", slog.Int("anchors", len(anchors)), slog.Int("links", len(links)))

	return links, nil
}
