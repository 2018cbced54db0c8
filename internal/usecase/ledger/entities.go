package ledger

import (
	"time"

	domainLedger "kitabu-backend/internal/domain/ledger"
	"kitabu-backend/internal/usecase/scope"
)

type AddTransactionInput struct {
	MemberID    string
	MeetingID   string
	Type        domainLedger.Type
	Amount      float64
	Date        time.Time // zero means now
	Description string
}

// ScopedView is what a caller sees plus its derived position.
type ScopedView struct {
	scope.View
	Summary Summary `json:"summary"`
}

type DonorMetrics struct {
	TotalSavings    float64 `json:"total_savings"`
	TotalLoans      float64 `json:"total_loans"`
	MemberCount     int     `json:"member_count"`
	FemaleCount     int     `json:"female_count"`
	UtilizationRate float64 `json:"utilization_rate"`
}
