package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "DRAFT"
	QuoteStatusPending   QuoteStatus = "PENDING"
	QuoteStatusSent      QuoteStatus = "SENT"
	QuoteStatusAccepted  QuoteStatus = "ACCEPTED"
	QuoteStatusRejected  QuoteStatus = "REJECTED"
	QuoteStatusExpired   QuoteStatus = "EXPIRED"
	QuoteStatusConverted QuoteStatus = "CONVERTED"
)

// IsTerminal reports whether the status ends the quote's lifecycle.
// Enforcement of terminality is a configuration switch.
func (s QuoteStatus) IsTerminal() bool {
	switch s {
	case QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusConverted:
		return true
	}
	return false
}

// Quote is a persisted snapshot of a customer's configuration selection.
// The QuoteCode, not the database ID, is the public lookup key: holding
// the code is the only credential needed to view the quote.
type Quote struct {
	Base
	ClientID       uint   `gorm:"not null;index" json:"client_id"`
	ConfiguratorID *uint  `gorm:"index" json:"configurator_id,omitempty"`
	QuoteCode      string `gorm:"uniqueIndex;not null" json:"quote_code"`

	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `gorm:"not null" json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerCompany string `json:"customer_company"`
	Message         string `json:"message"`

	// SelectedOptions maps category IDs to option IDs; Configuration is
	// free-form customer input. Both are JSON snapshots taken at
	// submission time.
	SelectedOptions string `gorm:"type:text" json:"selected_options"`
	Configuration   string `gorm:"type:text" json:"configuration"`

	TotalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	CurrencyCode string          `gorm:"default:USD" json:"currency_code"`

	Status       QuoteStatus `gorm:"default:PENDING" json:"status"`
	OpenCount    int         `gorm:"default:0" json:"open_count"`
	LastOpenedAt *time.Time  `json:"last_opened_at,omitempty"`
}
