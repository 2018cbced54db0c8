package ledger

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("transaction not found")
	ErrInvalidType    = errors.New("unknown transaction type")
	ErrInvalidAmount  = errors.New("transaction amount must not be negative")
	ErrAlreadyDeleted = errors.New("transaction already voided")
)

// Type is the kind of a ledger entry.
type Type string

const (
	TypeSharePurchase          Type = "share_purchase"
	TypeSavings                Type = "savings"
	TypeLoanIssue              Type = "loan_issue"
	TypeLoanRepaymentPrincipal Type = "loan_repayment_principal"
	TypeLoanRepaymentInterest  Type = "loan_repayment_interest"
	TypeFine                   Type = "fine"
	TypeWelfareContribution    Type = "welfare_contribution"
	TypeRegistrationFee        Type = "registration_fee"
	TypeDividendPayout         Type = "dividend_payout"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSharePurchase, TypeSavings, TypeLoanIssue, TypeLoanRepaymentPrincipal,
		TypeLoanRepaymentInterest, TypeFine, TypeWelfareContribution,
		TypeRegistrationFee, TypeDividendPayout:
		return true
	}
	return false
}

// Transaction is an append-only ledger entry. Only IsSoftDeleted ever changes.
type Transaction struct {
	ID            string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	TenantID      string    `gorm:"column:tenant_id;size:16;index" json:"tenant_id"`
	VslaID        string    `gorm:"column:vsla_id;size:16;index" json:"vsla_id"`
	CycleID       string    `gorm:"column:cycle_id;size:64" json:"cycle_id"`
	MemberID      string    `gorm:"column:member_id;size:64;index" json:"member_id"`
	MeetingID     string    `gorm:"column:meeting_id;size:64" json:"meeting_id,omitempty"`
	Type          Type      `gorm:"column:type;size:32;index" json:"type"`
	Amount        float64   `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Date          time.Time `gorm:"column:date" json:"date"`
	Description   string    `gorm:"column:description;type:text" json:"description"`
	RecordedBy    string    `gorm:"column:recorded_by;size:64" json:"recorded_by"`
	IsSoftDeleted bool      `gorm:"column:is_soft_deleted" json:"is_soft_deleted"`
}

func (Transaction) TableName() string { return "transactions" }
