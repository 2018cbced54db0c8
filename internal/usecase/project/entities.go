package project

import (
	"time"

	domainProject "kitabu-backend/internal/domain/project"
)

type CreateInput struct {
	VslaID      string
	Name        string
	Description string
	CapitalCost float64
	StartDate   time.Time
	Category    domainProject.Category
}

type PostInput struct {
	ProjectID   string
	Type        domainProject.TxType
	Amount      float64
	Description string
	Date        time.Time
}

// Metrics are derived on read and never stored.
type Metrics struct {
	ProjectID string  `json:"project_id"`
	Income    float64 `json:"income"`
	Expense   float64 `json:"expense"`
	Profit    float64 `json:"profit"`
	ROI       float64 `json:"roi"`
}
