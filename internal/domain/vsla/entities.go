package vsla

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("vsla not found")
	ErrNoActiveCycle = errors.New("vsla has no active cycle")
	ErrInvalidStatus = errors.New("invalid vsla status")
	ErrInvalidCycle  = errors.New("invalid cycle parameters")
)

// DefaultCycleID tags records written while no cycle is active.
const DefaultCycleID = "default"

const (
	Prefix = "KYV"
	Width  = 3
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended:
		return true
	}
	return false
}

type Vsla struct {
	ID                  string    `gorm:"column:id;primaryKey;size:16" json:"id"`
	TenantID            string    `gorm:"column:tenant_id;size:16;index" json:"tenant_id,omitempty"`
	Name                string    `gorm:"column:name;size:255;not null" json:"name"`
	InviteCode          string    `gorm:"column:invite_code;size:32;index" json:"invite_code"`
	Country             string    `gorm:"column:country;size:64" json:"country,omitempty"`
	County              string    `gorm:"column:county;size:64" json:"county,omitempty"`
	Constituency        string    `gorm:"column:constituency;size:64" json:"constituency,omitempty"`
	Ward                string    `gorm:"column:ward;size:64" json:"ward,omitempty"`
	Village             string    `gorm:"column:village;size:64" json:"village,omitempty"`
	Status              Status    `gorm:"column:status;size:16" json:"status"`
	HasInvestmentModule bool      `gorm:"column:has_investment_module" json:"has_investment_module"`
	RegisteredAt        time.Time `gorm:"column:registered_at" json:"registered_at"`
}

func (Vsla) TableName() string { return "vslas" }

// Cycle is a savings period; at most one per VSLA is active.
type Cycle struct {
	ID           string     `gorm:"column:id;primaryKey;size:64" json:"id"`
	VslaID       string     `gorm:"column:vsla_id;size:16;index;not null" json:"vsla_id"`
	Name         string     `gorm:"column:name;size:255" json:"name"`
	StartDate    time.Time  `gorm:"column:start_date" json:"start_date"`
	EndDate      *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	SharePrice   float64    `gorm:"column:share_price;type:decimal(18,2)" json:"share_price"`
	InterestRate float64    `gorm:"column:interest_rate;type:decimal(8,4)" json:"interest_rate"`
	IsActive     bool       `gorm:"column:is_active;index" json:"is_active"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Cycle) TableName() string { return "cycles" }

type Meeting struct {
	ID             string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	VslaID         string    `gorm:"column:vsla_id;size:16;index" json:"vsla_id"`
	CycleID        string    `gorm:"column:cycle_id;size:64;index" json:"cycle_id"`
	Date           time.Time `gorm:"column:date" json:"date"`
	Location       string    `gorm:"column:location;size:255" json:"location,omitempty"`
	IsClosed       bool      `gorm:"column:is_closed" json:"is_closed"`
	TotalCollected float64   `gorm:"column:total_collected;type:decimal(18,2)" json:"total_collected"`
	TotalLent      float64   `gorm:"column:total_lent;type:decimal(18,2)" json:"total_lent"`
}

func (Meeting) TableName() string { return "meetings" }

// InviteCode is the first three letters of name uppercased, joined to id.
func InviteCode(name, id string) string {
	r := []rune(name)
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r)) + "-" + id
}
