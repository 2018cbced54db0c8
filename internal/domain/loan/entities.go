package loan

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidInput      = errors.New("invalid loan input")
	ErrInsufficientCash  = errors.New("insufficient liquidity in group fund")
	ErrCapacityExceeded  = errors.New("amount exceeds member borrowing capacity")
	ErrNotActive         = errors.New("loan is not active")
	ErrInvalidTransition = errors.New("invalid loan state transition")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusActive    Status = "Active"
	StatusRepaid    Status = "Repaid"
	StatusDefaulted Status = "Defaulted"
)

const (
	// CapacityMultiplier bounds borrowing at this multiple of savings and shares.
	CapacityMultiplier = 3
	// RepaidThreshold closes a loan once the combined remaining balance falls to it.
	RepaidThreshold = 0.01
	// DirectMeetingID marks loans issued outside a meeting.
	DirectMeetingID = "direct"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusActive},
	StatusActive:  {StatusRepaid, StatusDefaulted},
}

// CanTransition reports whether from -> to is allowed. Repaid and
// Defaulted are terminal.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Loan struct {
	ID                 string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	MemberID           string    `gorm:"column:member_id;size:64;index" json:"member_id"`
	VslaID             string    `gorm:"column:vsla_id;size:16;index" json:"vsla_id"`
	CycleID            string    `gorm:"column:cycle_id;size:64" json:"cycle_id"`
	MeetingID          string    `gorm:"column:meeting_id;size:64" json:"meeting_id"`
	PrincipalAmount    float64   `gorm:"column:principal_amount;type:decimal(18,2)" json:"principal_amount"`
	InterestRate       float64   `gorm:"column:interest_rate;type:decimal(8,4)" json:"interest_rate"`
	DurationMonths     int       `gorm:"column:duration_months" json:"duration_months"`
	RemainingPrincipal float64   `gorm:"column:remaining_principal;type:decimal(18,2)" json:"remaining_principal"`
	RemainingInterest  float64   `gorm:"column:remaining_interest;type:decimal(18,2)" json:"remaining_interest"`
	TotalPaidPrincipal float64   `gorm:"column:total_paid_principal;type:decimal(18,2)" json:"total_paid_principal"`
	TotalPaidInterest  float64   `gorm:"column:total_paid_interest;type:decimal(18,2)" json:"total_paid_interest"`
	Status             Status    `gorm:"column:status;size:16;index" json:"status"`
	IssuedDate         time.Time `gorm:"column:issued_date" json:"issued_date"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Remaining is the combined outstanding principal and interest.
func (l Loan) Remaining() float64 { return l.RemainingPrincipal + l.RemainingInterest }

// CapacityWarning is returned when a request exceeds the member's borrowing
// capacity and the caller has not confirmed the override.
type CapacityWarning struct {
	Capacity  float64
	Requested float64
}

func (w *CapacityWarning) Error() string {
	return fmt.Sprintf("%s: requested %.2f, capacity %.2f", ErrCapacityExceeded, w.Requested, w.Capacity)
}

func (w *CapacityWarning) Is(target error) bool { return target == ErrCapacityExceeded }
