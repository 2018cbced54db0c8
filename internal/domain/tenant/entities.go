package tenant

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("tenant not found")
	ErrDuplicate = errors.New("tenant already registered")
	ErrForbidden = errors.New("caller may not act on this tenant")
)

type Kind string

const (
	KindNGO   Kind = "ngo"
	KindDonor Kind = "donor"
)

// Registry code prefixes and their zero-padding widths.
const (
	PrefixNGO   = "KYN"
	PrefixDonor = "KYD"
	WidthNGO    = 4
	WidthDonor  = 3
)

// Tenant is the top isolation boundary: an NGO or donor organization.
type Tenant struct {
	ID           string    `gorm:"column:id;primaryKey;size:16" json:"id"`
	Slug         string    `gorm:"column:slug;size:128;index" json:"slug"`
	Name         string    `gorm:"column:name;size:255;not null" json:"name"`
	Kind         Kind      `gorm:"column:kind;size:16" json:"kind"`
	Email        string    `gorm:"column:email;size:255" json:"email,omitempty"`
	Country      string    `gorm:"column:country;size:64" json:"country,omitempty"`
	County       string    `gorm:"column:county;size:64" json:"county,omitempty"`
	Constituency string    `gorm:"column:constituency;size:64" json:"constituency,omitempty"`
	Ward         string    `gorm:"column:ward;size:64" json:"ward,omitempty"`
	SmsGateway   string    `gorm:"column:sms_gateway;size:64" json:"sms_gateway,omitempty"`
	SmsBalance   float64   `gorm:"column:sms_balance;type:decimal(18,2)" json:"sms_balance"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Tenant) TableName() string { return "tenants" }

// Prefix returns the registry code prefix and padding width for a kind.
func (k Kind) Prefix() (string, int) {
	if k == KindDonor {
		return PrefixDonor, WidthDonor
	}
	return PrefixNGO, WidthNGO
}
