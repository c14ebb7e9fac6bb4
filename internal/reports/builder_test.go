package reports_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/reports"
	_ "github.com/inventorypro/inventorypro-web/testing"
)

func TestOrgSalesHTML(t *testing.T) {
	builder, err := reports.NewBuilder()
	if err != nil {
		t.Fatalf("builder: %v", err)
	}

	html, err := builder.OrgSalesHTML(reports.OrgReportData{
		OrgName:     "Acme",
		GeneratedAt: time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC),
		Summary: []api.SalesSummaryRow{
			{BranchName: "Main", Location: "Manila", TotalTransactions: 10, TotalRevenue: 1000, AvgTransactionValue: 100},
			{BranchName: "North", Location: "Quezon", TotalTransactions: 5, TotalRevenue: 500, AvgTransactionValue: 100},
		},
		TopProducts: []api.TopProduct{
			{ProductName: "Widget", Category: "Hardware", TotalSold: 30, TotalRevenue: 300, TransactionCount: 12},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"SALES REPORT",
		"Acme",
		"Total Branches: 2",
		"Total Transactions: 15",
		"PHP 1500.00",
		"Widget",
		"system-generated report",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestOrgSalesHTMLNoData(t *testing.T) {
	builder, err := reports.NewBuilder()
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	_, err = builder.OrgSalesHTML(reports.OrgReportData{OrgName: "Acme", GeneratedAt: time.Now()})
	if !errors.Is(err, reports.ErrNoSalesData) {
		t.Fatalf("expected ErrNoSalesData, got %v", err)
	}
}

func TestBranchSalesHTML(t *testing.T) {
	builder, err := reports.NewBuilder()
	if err != nil {
		t.Fatalf("builder: %v", err)
	}

	html, err := builder.BranchSalesHTML(reports.BranchReportData{
		BranchName:  "Main Branch",
		Location:    "Manila",
		Manager:     "jane",
		GeneratedAt: time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC),
		Sales: []api.BranchSalesRow{
			{Date: "2026-01-30", TotalSales: 250, TransactionCount: 4},
			{Date: "2026-01-31", TotalSales: 750, TransactionCount: 6},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Main Branch",
		"Total Revenue: PHP 1000.00",
		"Total Transactions: 10",
		"Sales Days: 2",
		"Manager: jane",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestBranchSalesHTMLNoData(t *testing.T) {
	builder, err := reports.NewBuilder()
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	_, err = builder.BranchSalesHTML(reports.BranchReportData{BranchName: "Main"})
	if !errors.Is(err, reports.ErrNoSalesData) {
		t.Fatalf("expected ErrNoSalesData, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	when := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := reports.Filename("Main Branch", when); got != "Sales_Report_Main_Branch_2026-01-31.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := reports.Filename("  ", when); got != "Sales_Report_Report_2026-01-31.pdf" {
		t.Fatalf("unexpected fallback filename %q", got)
	}
}
