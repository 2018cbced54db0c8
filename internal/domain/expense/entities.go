package expense

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("expense not found")
	ErrInvalidInput    = errors.New("invalid expense input")
	ErrAlreadyResolved = errors.New("expense already resolved")
)

type Status string

const (
	StatusPendingApproval Status = "Pending Approval"
	StatusApproved        Status = "Approved"
	StatusRejected        Status = "Rejected"
)

// Expense is a group spend request. Only Approved expenses reduce cash.
type Expense struct {
	ID          string     `gorm:"column:id;primaryKey;size:64" json:"id"`
	VslaID      string     `gorm:"column:vsla_id;size:16;index" json:"vsla_id"`
	CycleID     string     `gorm:"column:cycle_id;size:64" json:"cycle_id"`
	MemberID    string     `gorm:"column:member_id;size:64" json:"member_id"`
	Amount      float64    `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Date        time.Time  `gorm:"column:date" json:"date"`
	Status      Status     `gorm:"column:status;size:32;index" json:"status"`
	ApprovedBy  string     `gorm:"column:approved_by;size:64" json:"approved_by,omitempty"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (Expense) TableName() string { return "expenses" }

func (e Expense) Resolved() bool { return e.Status != StatusPendingApproval }
