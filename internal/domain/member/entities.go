package member

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("member not found")
	ErrInvalidInput = errors.New("invalid member input")
)

const (
	Prefix = "KYM"
	Width  = 4
)

// GroupRole is the member's office inside the VSLA, not a system role.
type GroupRole string

const (
	GroupRoleChair       GroupRole = "Chair"
	GroupRoleSecretary   GroupRole = "Secretary"
	GroupRoleTreasurer   GroupRole = "Treasurer"
	GroupRoleLoanOfficer GroupRole = "Loan Officer"
	GroupRoleMember      GroupRole = "Member"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusDormant   Status = "Dormant"
	StatusSuspended Status = "Suspended"
	StatusExited    Status = "Exited"
)

type Member struct {
	ID         string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	MemberKyID string    `gorm:"column:member_ky_id;size:16;index" json:"member_ky_id"`
	TenantID   string    `gorm:"column:tenant_id;size:16;index" json:"tenant_id"`
	VslaID     string    `gorm:"column:vsla_id;size:16;index" json:"vsla_id"`
	FirstName  string    `gorm:"column:first_name;size:128" json:"first_name"`
	LastName   string    `gorm:"column:last_name;size:128" json:"last_name"`
	Phone      string    `gorm:"column:phone;size:32;index" json:"phone"`
	NationalID string    `gorm:"column:national_id;size:32;index" json:"national_id"`
	Role       GroupRole `gorm:"column:role;size:32" json:"role"`
	Gender     Gender    `gorm:"column:gender;size:16" json:"gender,omitempty"`
	Status     Status    `gorm:"column:status;size:16" json:"status,omitempty"`
	JoinDate   time.Time `gorm:"column:join_date" json:"join_date"`
}

func (Member) TableName() string { return "members" }

func (m Member) FullName() string { return m.FirstName + " " + m.LastName }
