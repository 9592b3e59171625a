package reportadapter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jgivc/anexofetch/internal/entity"
	"github.com/stretchr/testify/require"
)

func newReport() *entity.Report {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	return &entity.Report{
		RunID:      "6f1c2b8e-0000-4000-8000-000000000001",
		SourceURL:  "https://www.gov.br/ans/rol",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Links:      []string{"/a/Anexo_I.pdf", "/a/Anexo|II.pdf"},
		Results: []*entity.DownloadResult{
			{
				Link:   &entity.Link{FileName: "Anexo_I.pdf", URL: "https://www.gov.br/a/Anexo_I.pdf"},
				Size:   2048,
				Status: entity.StatusDownloaded,
			},
			{
				Link:   &entity.Link{FileName: "Anexo|II.pdf", URL: "https://www.gov.br/a/Anexo|II.pdf"},
				Status: entity.StatusFailed,
				Err:    errors.New("HTTP 404"),
			},
		},
		Archive: &entity.Archive{Path: "data/anexos.zip", Entries: []string{"Anexo_I.pdf"}},
	}
}

func TestMarkdown(t *testing.T) {
	a, err := NewReportAdapter()
	require.NoError(t, err)

	md, err := a.Markdown(newReport())
	require.NoError(t, err)

	s := string(md)
	require.True(t, strings.HasPrefix(s, "---\n"))
	require.Contains(t, s, `run_id: "6f1c2b8e-0000-4000-8000-000000000001"`)
	require.Contains(t, s, "Links found: 2, downloaded: 1, failed: 1.")
	require.Contains(t, s, "took 1.5s")
	require.Contains(t, s, "| 1 | Anexo_I.pdf | https://www.gov.br/a/Anexo_I.pdf | downloaded | 2048 |")
	require.Contains(t, s, `| 2 | Anexo\|II.pdf |`)
	require.Contains(t, s, "failed: HTTP 404")
	require.Contains(t, s, "- Anexo_I.pdf")
}

func TestRender(t *testing.T) {
	a, err := NewReportAdapter()
	require.NoError(t, err)

	page, err := a.Render(newReport())
	require.NoError(t, err)

	s := string(page)
	require.Contains(t, s, "<title>Attachments 2026-03-01 10:00</title>")
	require.Contains(t, s, "<table>")
	require.Contains(t, s, "<td>Anexo_I.pdf</td>")
	require.Contains(t, s, "<li>Anexo_I.pdf</li>")
	require.NotContains(t, s, "run_id:")
}

func TestRenderWithoutArchive(t *testing.T) {
	a, err := NewReportAdapter()
	require.NoError(t, err)

	r := newReport()
	r.Archive = nil
	r.FinishedAt = time.Time{}

	page, err := a.Render(r)
	require.NoError(t, err)
	require.Contains(t, string(page), "No archive was written.")
	require.Contains(t, string(page), "took n/a")
}
