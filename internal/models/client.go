package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a JSON array of strings in a single text column.
// Used for the per-client embed domain allow-list.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Client represents a tenant of the platform. Clients own configurators,
// themes, quotes, and files, and authenticate embeds with an opaque
// public key scoped by a domain allow-list.
type Client struct {
	Base
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	CompanyName string `json:"company_name"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// Embed credentials.
	PublicKey      string     `gorm:"uniqueIndex;not null" json:"public_key"`
	AllowedDomains StringList `gorm:"type:text" json:"allowed_domains"`

	// Billing & usage.
	SubscriptionStatus string `gorm:"default:free" json:"subscription_status"`
	ChargedBlocks      int    `gorm:"default:0" json:"charged_blocks"`
	MonthlyRequests    int64  `gorm:"default:0" json:"monthly_requests"`
	RequestLimit       int64  `gorm:"default:10000" json:"request_limit"`

	RefreshTokenHash string `gorm:"size:64" json:"-"`

	// Relationships
	Configurators []Configurator `gorm:"foreignKey:ClientID" json:"configurators,omitempty"`
	Themes        []Theme        `gorm:"foreignKey:ClientID" json:"themes,omitempty"`
	Quotes        []Quote        `gorm:"foreignKey:ClientID" json:"quotes,omitempty"`
	Files         []File         `gorm:"foreignKey:ClientID" json:"files,omitempty"`
}
