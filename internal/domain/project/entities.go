package project

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("investment project not found")
	ErrInvalidInput = errors.New("invalid project input")
)

type Category string

const (
	CategoryPoultry      Category = "Poultry"
	CategoryAgribusiness Category = "Agribusiness"
	CategoryRetail       Category = "Retail"
	CategoryService      Category = "Service"
	CategoryOther        Category = "Other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPoultry, CategoryAgribusiness, CategoryRetail, CategoryService, CategoryOther:
		return true
	}
	return false
}

type FundingStatus string

const (
	FundingFullyFunded FundingStatus = "Fully Funded"
	FundingSeeking     FundingStatus = "Seeking Funding"
	FundingInProgress  FundingStatus = "In Progress"
)

// DefaultTargetROI is the target return percentage of new projects.
const DefaultTargetROI = 20

type TxType string

const (
	TxIncome  TxType = "Income"
	TxExpense TxType = "Expense"
)

func (t TxType) Valid() bool { return t == TxIncome || t == TxExpense }

type InvestmentProject struct {
	ID            string        `gorm:"column:id;primaryKey;size:64" json:"id"`
	VslaID        string        `gorm:"column:vsla_id;size:16;index" json:"vsla_id"`
	Name          string        `gorm:"column:name;size:255" json:"name"`
	Description   string        `gorm:"column:description;type:text" json:"description"`
	CapitalCost   float64       `gorm:"column:capital_cost;type:decimal(18,2)" json:"capital_cost"`
	StartDate     time.Time     `gorm:"column:start_date" json:"start_date"`
	IsActive      bool          `gorm:"column:is_active" json:"is_active"`
	Category      Category      `gorm:"column:category;size:32" json:"category"`
	TargetROI     float64       `gorm:"column:target_roi;type:decimal(8,2)" json:"target_roi"`
	FundingStatus FundingStatus `gorm:"column:funding_status;size:32" json:"funding_status"`
}

func (InvestmentProject) TableName() string { return "investment_projects" }

// Transaction is an income or expense posting, separate from the group ledger.
type Transaction struct {
	ID          string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	ProjectID   string    `gorm:"column:project_id;size:64;index" json:"project_id"`
	Type        TxType    `gorm:"column:type;size:16" json:"type"`
	Amount      float64   `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Date        time.Time `gorm:"column:date" json:"date"`
}

func (Transaction) TableName() string { return "project_transactions" }
