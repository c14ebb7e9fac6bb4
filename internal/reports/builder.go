package reports

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/inventorypro/inventorypro-web/internal/api"
)

// ErrNoSalesData blocks report generation when there is nothing to report.
var ErrNoSalesData = errors.New("reports: no sales data")

// OrgReportData feeds the organization-wide sales report.
type OrgReportData struct {
	OrgName     string
	GeneratedAt time.Time
	Summary     []api.SalesSummaryRow
	TopProducts []api.TopProduct
}

// TotalRevenue sums revenue across branches.
func (d OrgReportData) TotalRevenue() float64 {
	var total float64
	for _, row := range d.Summary {
		total += row.TotalRevenue
	}
	return total
}

// TotalTransactions sums transaction counts across branches.
func (d OrgReportData) TotalTransactions() int {
	var total int
	for _, row := range d.Summary {
		total += row.TotalTransactions
	}
	return total
}

// AvgPerBranch is revenue averaged over branches.
func (d OrgReportData) AvgPerBranch() float64 {
	if len(d.Summary) == 0 {
		return 0
	}
	return d.TotalRevenue() / float64(len(d.Summary))
}

// Top10 limits the product ranking to ten rows.
func (d OrgReportData) Top10() []api.TopProduct {
	if len(d.TopProducts) > 10 {
		return d.TopProducts[:10]
	}
	return d.TopProducts
}

// BranchReportData feeds the branch sales report.
type BranchReportData struct {
	BranchName  string
	Location    string
	Manager     string
	GeneratedAt time.Time
	Sales       []api.BranchSalesRow
}

// TotalRevenue sums daily revenue.
func (d BranchReportData) TotalRevenue() float64 {
	var total float64
	for _, row := range d.Sales {
		total += row.TotalSales
	}
	return total
}

// TotalTransactions sums daily transaction counts.
func (d BranchReportData) TotalTransactions() int {
	var total int
	for _, row := range d.Sales {
		total += row.TransactionCount
	}
	return total
}

// AvgTransaction is revenue per transaction.
func (d BranchReportData) AvgTransaction() float64 {
	txns := d.TotalTransactions()
	if txns == 0 {
		return 0
	}
	return d.TotalRevenue() / float64(txns)
}

// Builder renders report documents from fetched sales data.
type Builder struct {
	org    *template.Template
	branch *template.Template
}

// NewBuilder parses the report templates.
func NewBuilder() (*Builder, error) {
	funcs := template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("PHP %.2f", v) },
		"date":  func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
	}
	org, err := template.New("org").Funcs(funcs).Parse(orgReportTemplate)
	if err != nil {
		return nil, err
	}
	branch, err := template.New("branch").Funcs(funcs).Parse(branchReportTemplate)
	if err != nil {
		return nil, err
	}
	return &Builder{org: org, branch: branch}, nil
}

// OrgSalesHTML renders the organization-wide report document.
func (b *Builder) OrgSalesHTML(data OrgReportData) (string, error) {
	if len(data.Summary) == 0 {
		return "", ErrNoSalesData
	}
	var out strings.Builder
	if err := b.org.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// BranchSalesHTML renders the branch report document.
func (b *Builder) BranchSalesHTML(data BranchReportData) (string, error) {
	if len(data.Sales) == 0 {
		return "", ErrNoSalesData
	}
	var out strings.Builder
	if err := b.branch.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Filename builds the download name, e.g. Sales_Report_Main_Branch_2026-01-31.pdf.
func Filename(name string, t time.Time) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if cleaned == "" {
		cleaned = "Report"
	}
	return fmt.Sprintf("Sales_Report_%s_%s.pdf", cleaned, t.Format("2006-01-02"))
}

const orgReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 40px; color: #1a202c; }
h1 { text-align: center; font-size: 24px; }
h2 { font-size: 16px; border-bottom: 1px solid #cbd5e0; padding-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 24px; font-size: 12px; }
th { background: #34495e; color: #fff; text-align: left; padding: 6px; }
td { padding: 6px; border-bottom: 1px solid #e2e8f0; }
.meta { font-size: 12px; color: #4a5568; }
.footer { font-size: 10px; color: #718096; text-align: center; margin-top: 32px; font-style: italic; }
</style>
</head>
<body>
<h1>SALES REPORT</h1>
<p class="meta">
Organization: {{.OrgName}}<br>
Generated: {{date .GeneratedAt}}<br>
Report Type: All Branches Overview
</p>
<h2>Overall Summary</h2>
<p>
Total Branches: {{len .Summary}}<br>
Total Transactions: {{.TotalTransactions}}<br>
Total Revenue: {{money .TotalRevenue}}<br>
Average Revenue per Branch: {{money .AvgPerBranch}}
</p>
<h2>Sales by Branch</h2>
<table>
<tr><th>Branch</th><th>Location</th><th>Transactions</th><th>Revenue</th><th>Avg/Transaction</th></tr>
{{range .Summary}}
<tr><td>{{.BranchName}}</td><td>{{.Location}}</td><td>{{.TotalTransactions}}</td><td>{{money .TotalRevenue}}</td><td>{{money .AvgTransactionValue}}</td></tr>
{{end}}
</table>
{{if .TopProducts}}
<h2>Top 10 Products (Organization-wide)</h2>
<table>
<tr><th>Product</th><th>Category</th><th>Sold</th><th>Revenue</th><th>Transactions</th></tr>
{{range .Top10}}
<tr><td>{{.ProductName}}</td><td>{{if .Category}}{{.Category}}{{else}}N/A{{end}}</td><td>{{.TotalSold}}</td><td>{{money .TotalRevenue}}</td><td>{{.TransactionCount}}</td></tr>
{{end}}
</table>
{{end}}
<p class="footer">This is a system-generated report</p>
</body>
</html>`

const branchReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 40px; color: #1a202c; }
h1 { text-align: center; font-size: 24px; }
h2 { font-size: 16px; border-bottom: 1px solid #cbd5e0; padding-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 24px; font-size: 12px; }
th { background: #34495e; color: #fff; text-align: left; padding: 6px; }
td { padding: 6px; border-bottom: 1px solid #e2e8f0; }
tr:nth-child(even) td { background: #f9f9f9; }
.meta { font-size: 12px; color: #4a5568; text-align: center; }
.footer { font-size: 10px; color: #718096; margin-top: 32px; }
</style>
</head>
<body>
<h1>Sales Report</h1>
<p class="meta">
Branch: {{.BranchName}}<br>
Location: {{if .Location}}{{.Location}}{{else}}N/A{{end}}<br>
Generated: {{date .GeneratedAt}}
</p>
<h2>Summary</h2>
<p>
Total Revenue: {{money .TotalRevenue}}<br>
Total Transactions: {{.TotalTransactions}}<br>
Average Transaction: {{money .AvgTransaction}}<br>
Sales Days: {{len .Sales}}
</p>
<h2>Daily Sales Breakdown</h2>
<table>
<tr><th>Date</th><th>Transactions</th><th>Total Sales</th></tr>
{{range .Sales}}
<tr><td>{{.Date}}</td><td>{{.TransactionCount}}</td><td>{{money .TotalSales}}</td></tr>
{{end}}
</table>
<p class="footer">Manager: {{if .Manager}}{{.Manager}}{{else}}N/A{{end}}</p>
</body>
</html>`
