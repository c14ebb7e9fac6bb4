// Package jobs contains background task definitions and the Asynq worker
// that processes them.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeOrgSalesReport is the task type for generating an
	// organization-wide sales report PDF.
	TaskTypeOrgSalesReport = "report:org_sales"
)

// OrgSalesReportPayload identifies the organization to report on.
type OrgSalesReportPayload struct {
	OrgID   int64  `json:"org_id"`
	OrgName string `json:"org_name"`
}

// NewOrgSalesReportTask constructs an Asynq task.
func NewOrgSalesReportTask(payload OrgSalesReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeOrgSalesReport, data), nil
}
