package expense

import (
	"time"
)

type RequestInput struct {
	VslaID      string
	MemberID    string // requester, usually the treasurer
	Amount      float64
	Description string
	Date        time.Time
}

type ResolveInput struct {
	ExpenseID  string
	Approved   bool
	ApproverID string // defaults to the caller
}
