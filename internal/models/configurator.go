package models

// Configurator is a client-owned, embeddable product-configuration
// definition. The PublicID is the shareable identifier used by embeds;
// the database ID never leaves the dashboard API.
type Configurator struct {
	Base
	ClientID       uint   `gorm:"not null;index" json:"client_id"`
	PublicID       string `gorm:"uniqueIndex;not null" json:"public_id"`
	Name           string `gorm:"not null" json:"name"`
	Description    string `json:"description"`
	CurrencyCode   string `gorm:"default:USD" json:"currency_code"`
	CurrencySymbol string `gorm:"default:$" json:"currency_symbol"`
	Published      bool   `gorm:"default:false" json:"published"`
	ThemeID        *uint  `json:"theme_id,omitempty"`

	// Relationships
	Theme      *Theme     `gorm:"foreignKey:ThemeID" json:"theme,omitempty"`
	Categories []Category `gorm:"foreignKey:ConfiguratorID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Quotes     []Quote    `gorm:"foreignKey:ConfiguratorID" json:"quotes,omitempty"`
}
