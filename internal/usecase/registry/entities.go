package registry

import (
	"time"

	"kitabu-backend/internal/domain/member"
	"kitabu-backend/internal/domain/tenant"
)

type Geography struct {
	Country      string
	County       string
	Constituency string
	Ward         string
}

type TenantInput struct {
	Kind  tenant.Kind
	Name  string
	Email string
	Geography
}

type VslaInput struct {
	Name    string
	Village string
	// NgoIdentifier is a tenant slug, name or id; empty means the caller's tenant.
	NgoIdentifier string
	Geography
}

type CycleInput struct {
	VslaID       string
	Name         string
	StartDate    time.Time
	EndDate      *time.Time
	SharePrice   float64
	InterestRate float64
}

type MemberInput struct {
	VslaID     string
	FirstName  string
	LastName   string
	Phone      string
	NationalID string
	Role       member.GroupRole
	Gender     member.Gender
}
