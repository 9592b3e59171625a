package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jgivc/anexofetch/internal/entity"
)

const (
	serviceName = "report"
)

type ReportRenderer interface {
	Render(report *entity.Report) ([]byte, error)
}

type FileWriter interface {
	WriteFile(path string, r io.Reader, chunkSize int) (int64, error)
}

type reportService struct {
	path     string
	renderer ReportRenderer
	writer   FileWriter
	log      *slog.Logger
}

func NewReportService(path string, renderer ReportRenderer, writer FileWriter, log *slog.Logger) *reportService {
	return &reportService{
		path:     path,
		renderer: renderer,
		writer:   writer,
		log:      log.With(slog.String("service", serviceName)),
	}
}

func (r *reportService) Save(ctx context.Context, report *entity.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := r.renderer.Render(report)
	if err != nil {
		r.log.Error("Cannot render report", slog.String("run_id", report.RunID), slog.Any("error", err))

		return fmt.Errorf("cannot render report %s: %w", report.RunID, err)
	}

	if _, err := r.writer.WriteFile(r.path, bytes.NewReader(content), len(content)); err != nil {
		r.log.Error("Cannot save report", slog.String("path", r.path), slog.Any("error", err))

		return fmt.Errorf("cannot save report to %s: %w", r.path, err)
	}

	r.log.Info("Report saved", slog.String("path", r.path))

	return nil
}
