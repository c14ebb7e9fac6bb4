package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/reports"
	"github.com/inventorypro/inventorypro-web/jobs"
	_ "github.com/inventorypro/inventorypro-web/testing"
)

type stubRenderer struct {
	pdf []byte
	err error
}

func (s stubRenderer) RenderHTML(_ context.Context, _ string) ([]byte, error) {
	return s.pdf, s.err
}

func newReportJob(t *testing.T, upstream http.Handler, renderer reports.Renderer) (*jobs.ReportJob, string) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	builder, err := reports.NewBuilder()
	require.NoError(t, err)

	outDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := jobs.NewReportJob(api.NewClient(srv.URL, time.Second), builder, renderer, outDir, logger)
	return job, outDir
}

func orgTask(t *testing.T, orgID int64, orgName string) *asynq.Task {
	t.Helper()
	task, err := jobs.NewOrgSalesReportTask(jobs.OrgSalesReportPayload{OrgID: orgID, OrgName: orgName})
	require.NoError(t, err)
	return task
}

func TestReportJobWritesPDF(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/sales-summary/9", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]api.SalesSummaryRow{
			{BranchID: 1, BranchName: "Main", TotalTransactions: 10, TotalRevenue: 1500},
		})
	})
	mux.HandleFunc("/admin/top-products/9", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]api.TopProduct{
			{ProductName: "Widget", TotalSold: 30, TotalRevenue: 300},
		})
	})
	job, outDir := newReportJob(t, mux, stubRenderer{pdf: []byte("%PDF-1.4 fake")})

	err := job.HandleOrgSalesReport(context.Background(), orgTask(t, 9, "Acme"))
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "Sales_Report_Acme_"))

	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestReportJobSkipsRetryOnBadPayload(t *testing.T) {
	job, _ := newReportJob(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("upstream should not be called")
	}), stubRenderer{})

	err := job.HandleOrgSalesReport(context.Background(), asynq.NewTask(jobs.TaskTypeOrgSalesReport, []byte("{broken")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = job.HandleOrgSalesReport(context.Background(), orgTask(t, 0, ""))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReportJobNoSalesData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/sales-summary/9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	mux.HandleFunc("/admin/top-products/9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	job, outDir := newReportJob(t, mux, stubRenderer{pdf: []byte("unused")})

	err := job.HandleOrgSalesReport(context.Background(), orgTask(t, 9, "Acme"))
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReportJobUpstreamErrorIsRetryable(t *testing.T) {
	job, _ := newReportJob(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), stubRenderer{})

	err := job.HandleOrgSalesReport(context.Background(), orgTask(t, 9, "Acme"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestReportJobRendererError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/sales-summary/9", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]api.SalesSummaryRow{
			{BranchID: 1, BranchName: "Main", TotalTransactions: 1, TotalRevenue: 100},
		})
	})
	mux.HandleFunc("/admin/top-products/9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	job, outDir := newReportJob(t, mux, stubRenderer{err: errors.New("gotenberg unavailable")})

	err := job.HandleOrgSalesReport(context.Background(), orgTask(t, 9, "Acme"))
	require.Error(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
