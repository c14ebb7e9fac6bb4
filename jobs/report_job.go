package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/reports"
)

// ReportJob generates sales report PDFs outside the request path and writes
// them to a shared output directory.
type ReportJob struct {
	client   *api.Client
	builder  *reports.Builder
	renderer reports.Renderer
	outDir   string
	logger   *slog.Logger
}

// NewReportJob constructs the report job handler.
func NewReportJob(client *api.Client, builder *reports.Builder, renderer reports.Renderer, outDir string, logger *slog.Logger) *ReportJob {
	return &ReportJob{
		client:   client,
		builder:  builder,
		renderer: renderer,
		outDir:   outDir,
		logger:   logger,
	}
}

// HandleOrgSalesReport processes TaskTypeOrgSalesReport tasks.
func (j *ReportJob) HandleOrgSalesReport(ctx context.Context, t *asynq.Task) error {
	var payload OrgSalesReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.OrgID == 0 {
		return asynq.SkipRetry
	}

	summary, err := j.client.SalesSummary(ctx, payload.OrgID)
	if err != nil {
		return err
	}
	topProducts, err := j.client.TopProducts(ctx, payload.OrgID)
	if err != nil {
		j.logger.Warn("report job: top products unavailable", slog.Int64("org_id", payload.OrgID), slog.Any("error", err))
	}

	generatedAt := time.Now()
	html, err := j.builder.OrgSalesHTML(reports.OrgReportData{
		OrgName:     payload.OrgName,
		GeneratedAt: generatedAt,
		Summary:     summary,
		TopProducts: topProducts,
	})
	if err != nil {
		if errors.Is(err, reports.ErrNoSalesData) {
			j.logger.Info("report job: no sales data, skipping", slog.Int64("org_id", payload.OrgID))
			return nil
		}
		return err
	}

	pdf, err := j.renderer.RenderHTML(ctx, html)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(j.outDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(j.outDir, reports.Filename(payload.OrgName, generatedAt))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return err
	}
	j.logger.Info("report job: report written",
		slog.Int64("org_id", payload.OrgID),
		slog.String("path", path),
		slog.Int("bytes", len(pdf)))
	return nil
}
