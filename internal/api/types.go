package api

// Records exchanged with the inventory API. Field names follow the wire
// format the API speaks; this layer does not own their lifecycle.

// Product is a stock item scoped to a branch.
type Product struct {
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductDesc  string  `json:"product_desc"`
	Category     string  `json:"category"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
	Barcode      string  `json:"barcode"`
	BranchID     int64   `json:"branch_id"`
	OrgID        int64   `json:"org_id"`
}

// Branch is a physical location scoping inventory, sales and staff.
type Branch struct {
	BranchID        int64  `json:"branch_id"`
	BranchName      string `json:"branch_name"`
	Location        string `json:"location"`
	ManagerUsername string `json:"manager_username"`
}

// OrgUser is a user account within the organization.
type OrgUser struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	BranchID   int64  `json:"branch_id"`
	BranchName string `json:"branch_name"`
}

// BranchSalesRow aggregates one day of sales for a branch.
type BranchSalesRow struct {
	Date             string  `json:"date"`
	TotalSales       float64 `json:"total_sales"`
	TransactionCount int     `json:"transaction_count"`
}

// InventorySummaryRow aggregates a branch's stock position.
type InventorySummaryRow struct {
	BranchID      int64  `json:"branch_id"`
	BranchName    string `json:"branch_name"`
	Location      string `json:"location"`
	TotalProducts int    `json:"total_products"`
	TotalStock    int    `json:"total_stock"`
	LowStockItems int    `json:"low_stock_items"`
}

// SalesSummaryRow aggregates a branch's sales performance.
type SalesSummaryRow struct {
	BranchID            int64   `json:"branch_id"`
	BranchName          string  `json:"branch_name"`
	Location            string  `json:"location"`
	TotalTransactions   int     `json:"total_transactions"`
	TotalRevenue        float64 `json:"total_revenue"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

// TopProduct ranks a product by organization-wide sales.
type TopProduct struct {
	ProductName      string  `json:"product_name"`
	Category         string  `json:"category"`
	TotalSold        int     `json:"total_sold"`
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int     `json:"transaction_count"`
}

// TrendPoint is one day of organization-wide revenue.
type TrendPoint struct {
	Date         string  `json:"date"`
	DailyRevenue float64 `json:"daily_revenue"`
}

// SaleItem is one checkout line sent to the API.
type SaleItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// SaleInput is the checkout payload.
type SaleInput struct {
	BranchID    int64      `json:"branch_id"`
	OrgID       int64      `json:"org_id"`
	Items       []SaleItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
}

// LoginResult is the session record returned by a successful login.
type LoginResult struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Role     string `json:"role"`
	BranchID int64  `json:"branch_id"`
	OrgID    int64  `json:"org_id"`
	OrgName  string `json:"org_name"`
}

// ProductInput creates a new product.
type ProductInput struct {
	ProductName  string  `json:"product_name"`
	ProductDesc  string  `json:"product_desc"`
	Category     string  `json:"category"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
	Barcode      string  `json:"barcode,omitempty"`
	BranchID     int64   `json:"branch_id"`
	OrgID        int64   `json:"org_id"`
}

// BranchInput creates a new branch.
type BranchInput struct {
	BranchName string `json:"branch_name"`
	Location   string `json:"location"`
	OrgID      int64  `json:"org_id"`
}

// RegisterUserInput creates an admin or manager account. BranchID stays nil
// for admin accounts.
type RegisterUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	BranchID *int64 `json:"branch_id"`
	OrgID    int64  `json:"org_id"`
}

// RegisterStaffInput creates a staff account scoped to the manager's branch.
type RegisterStaffInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	BranchID int64  `json:"branch_id"`
	OrgID    int64  `json:"org_id"`
}
