package partnership

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("partnership project not found")
	ErrInvalidInput = errors.New("invalid partnership input")
	ErrNotOpen      = errors.New("partnership project is not open for funding")
)

type Status string

const (
	StatusOpen      Status = "Open"
	StatusFunded    Status = "Funded"
	StatusCompleted Status = "Completed"
)

// DefaultMEScore is the monitoring and evaluation score new postings start with.
const DefaultMEScore = 85

// Project is a donor-facing marketplace posting.
type Project struct {
	ID           string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	Title        string    `gorm:"column:title;size:255" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	VslaID       string    `gorm:"column:vsla_id;size:16;index" json:"vsla_id"`
	TenantID     string    `gorm:"column:tenant_id;size:16;index" json:"tenant_id"`
	Budget       float64   `gorm:"column:budget;type:decimal(18,2)" json:"budget"`
	FundedAmount float64   `gorm:"column:funded_amount;type:decimal(18,2)" json:"funded_amount"`
	Status       Status    `gorm:"column:status;size:16" json:"status"`
	Category     string    `gorm:"column:category;size:64" json:"category"`
	MEScore      float64   `gorm:"column:m_and_e_score;type:decimal(6,2)" json:"m_and_e_score"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Project) TableName() string { return "partnership_projects" }
