package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action codes written by the mutating operations.
const (
	ActionLogin         = "LOGIN"
	ActionOrgProvision  = "ORG_PROV"
	ActionVslaRegister  = "VSLA_REG"
	ActionVslaStatus    = "VSLA_STATUS"
	ActionCycleOpen     = "CYCLE_OPEN"
	ActionMemberEnroll  = "MEMBER_ENROLL"
	ActionTxRecord      = "TX_RECORD"
	ActionTxVoid        = "TX_VOID"
	ActionLoanIssued    = "LOAN_ISSUED"
	ActionLoanRepayment = "LOAN_REPAYMENT"
	ActionLoanDefault   = "LOAN_DEFAULT"
	ActionExpenseReq    = "EXPENSE_REQ"
	ActionExpenseAuth   = "EXPENSE_AUTH"
	ActionProjectInit   = "PROJECT_INIT"
	ActionProjectTx     = "PROJECT_TX"
	ActionMarketPost    = "MARKET_POST"
	ActionMarketFund    = "MARKET_FUND"
	ActionStoreReset    = "STORE_RESET"
)

// Log is an immutable audit entry.
type Log struct {
	ID        string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	TenantID  string    `gorm:"column:tenant_id;size:16;index" json:"tenant_id"`
	UserID    string    `gorm:"column:user_id;size:64" json:"user_id"`
	Action    string    `gorm:"column:action;size:32;index" json:"action"`
	Timestamp time.Time `gorm:"column:timestamp;index" json:"timestamp"`
	Details   string    `gorm:"column:details;type:text" json:"details"`
}

func (Log) TableName() string { return "audit_logs" }

// SystemActor is recorded when no user is attached to the event.
const SystemActor = "sys"

// New builds an entry stamped at at; an empty actor becomes SystemActor.
func New(tenantID, actor, action, details string, at time.Time) *Log {
	if actor == "" {
		actor = SystemActor
	}
	return &Log{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		UserID:    actor,
		Action:    action,
		Timestamp: at.UTC(),
		Details:   details,
	}
}
