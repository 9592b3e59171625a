package reportadapter

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	_ "embed"

	"github.com/jgivc/anexofetch/internal/entity"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

const (
	defaultTitle = "Attachments"
)

var (
	//go:embed templates/report.md
	reportTemplateContent string

	//go:embed templates/page.html
	pageTemplateContent string
)

type Frontmatter struct {
	Title     string `yaml:"title"`
	RunID     string `yaml:"run_id"`
	SourceURL string `yaml:"source_url"`
}

type pageContext struct {
	Title   string
	Content htmltemplate.HTML
}

type reportAdapter struct {
	md     goldmark.Markdown
	report *template.Template
	page   *htmltemplate.Template
}

func NewReportAdapter() (*reportAdapter, error) {
	report, err := template.New("report").Funcs(template.FuncMap{
		"inc":      func(i int) int { return i + 1 },
		"cell":     escapeCell,
		"duration": runDuration,
	}).Parse(reportTemplateContent)
	if err != nil {
		return nil, fmt.Errorf("cannot parse report template: %w", err)
	}

	page, err := htmltemplate.New("page").Parse(pageTemplateContent)
	if err != nil {
		return nil, fmt.Errorf("cannot parse page template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	return &reportAdapter{
		md:     md,
		report: report,
		page:   page,
	}, nil
}

// Markdown renders the report as Markdown with a YAML front matter block.
func (a *reportAdapter) Markdown(report *entity.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.report.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("cannot execute report template: %w", err)
	}

	return buf.Bytes(), nil
}

// Render returns the report as a standalone HTML page.
func (a *reportAdapter) Render(report *entity.Report) ([]byte, error) {
	src, err := a.Markdown(report)
	if err != nil {
		return nil, err
	}

	ctx := parser.NewContext()

	var body bytes.Buffer
	if err := a.md.Convert(src, &body, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("cannot convert markdown: %w", err)
	}

	title := defaultTitle
	if data := frontmatter.Get(ctx); data != nil {
		var fm Frontmatter
		if err := data.Decode(&fm); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter: %w", err)
		}

		if fm.Title != "" {
			title = fm.Title
		}
	}

	var page bytes.Buffer
	if err := a.page.Execute(&page, &pageContext{Title: title, Content: htmltemplate.HTML(body.String())}); err != nil {
		return nil, fmt.Errorf("cannot execute page template: %w", err)
	}

	return page.Bytes(), nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)

	return strings.ReplaceAll(s, "\n", " ")
}

func runDuration(r *entity.Report) string {
	if r.FinishedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return "n/a"
	}

	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}
