package loan

import (
	"time"

	domainLoan "kitabu-backend/internal/domain/loan"
)

type IssueLoanInput struct {
	MemberID       string
	Amount         float64
	DurationMonths int
	MeetingID      string // empty means issued outside a meeting
	// ConfirmOverCapacity acknowledges a request above the member's capacity.
	ConfirmOverCapacity bool
}

type RepayLoanInput struct {
	Principal float64
	Interest  float64
}

type LoanDTO struct {
	LoanID             string    `json:"loan_id"`
	MemberID           string    `json:"member_id"`
	VslaID             string    `json:"vsla_id"`
	CycleID            string    `json:"cycle_id"`
	MeetingID          string    `json:"meeting_id"`
	PrincipalAmount    float64   `json:"principal_amount"`
	InterestRate       float64   `json:"interest_rate"`
	DurationMonths     int       `json:"duration_months"`
	RemainingPrincipal float64   `json:"remaining_principal"`
	RemainingInterest  float64   `json:"remaining_interest"`
	TotalPaidPrincipal float64   `json:"total_paid_principal"`
	TotalPaidInterest  float64   `json:"total_paid_interest"`
	Status             string    `json:"status"`
	IssuedDate         time.Time `json:"issued_date"`
}

type CapacityDTO struct {
	MemberID string  `json:"member_id"`
	Savings  float64 `json:"savings"`
	Capacity float64 `json:"capacity"`
}

func toDTO(l *domainLoan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:             l.ID,
		MemberID:           l.MemberID,
		VslaID:             l.VslaID,
		CycleID:            l.CycleID,
		MeetingID:          l.MeetingID,
		PrincipalAmount:    l.PrincipalAmount,
		InterestRate:       l.InterestRate,
		DurationMonths:     l.DurationMonths,
		RemainingPrincipal: l.RemainingPrincipal,
		RemainingInterest:  l.RemainingInterest,
		TotalPaidPrincipal: l.TotalPaidPrincipal,
		TotalPaidInterest:  l.TotalPaidInterest,
		Status:             string(l.Status),
		IssuedDate:         l.IssuedDate,
	}
}
