package models

// ProcessedPaymentSession marks a checkout session whose block purchase
// has already been credited. A webhook replay or duplicate verification
// call for the same session must not double-increment charged blocks.
type ProcessedPaymentSession struct {
	Base
	SessionID string `gorm:"uniqueIndex;not null" json:"session_id"`
	ClientID  uint   `gorm:"not null;index" json:"client_id"`
}
