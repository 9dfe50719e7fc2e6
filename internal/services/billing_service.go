package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "configly/internal/errors"
	"configly/internal/logger"
	"configly/internal/models"
	"configly/internal/payments"
)

const (
	// IncludedPrimaryOptions is the primary-option capacity every plan
	// starts with.
	IncludedPrimaryOptions = 10
	// PrimaryOptionBlockSize is the capacity each purchased block adds.
	PrimaryOptionBlockSize = 10
)

// PrimaryOptionLimit computes the primary-option cap for a client with
// the given number of purchased blocks.
func PrimaryOptionLimit(chargedBlocks int) int {
	return IncludedPrimaryOptions + chargedBlocks*PrimaryOptionBlockSize
}

// countPrimaryOptions counts a client's options in primary categories
// across all their configurators. Callers pass their transaction handle
// so the count and a subsequent insert share one transaction.
func countPrimaryOptions(tx *gorm.DB, clientID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Option{}).
		Joins("JOIN categories ON categories.id = options.category_id").
		Joins("JOIN configurators ON configurators.id = categories.configurator_id").
		Where("configurators.client_id = ? AND categories.is_primary = ?", clientID, true).
		Where("categories.deleted_at IS NULL AND configurators.deleted_at IS NULL").
		Count(&count).Error
	return count, err
}

// billingService handles plan capacity and block purchases.
type billingService struct {
	db       *gorm.DB
	provider payments.Provider
}

// NewBillingService creates a new BillingServicer.
func NewBillingService(db *gorm.DB, provider payments.Provider) BillingServicer {
	return &billingService{db: db, provider: provider}
}

// Usage computes primary-option consumption against the plan limit.
func (s *billingService) Usage(clientID uint) (*Usage, error) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	used, err := countPrimaryOptions(s.db, clientID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	limit := PrimaryOptionLimit(client.ChargedBlocks)
	remaining := int64(limit) - used
	if remaining < 0 {
		remaining = 0
	}

	return &Usage{
		Included:     limit,
		Used:         used,
		Remaining:    remaining,
		LimitReached: used >= int64(limit),
	}, nil
}

// StartBlockCheckout opens a payment session for one capacity block.
func (s *billingService) StartBlockCheckout(clientID uint) (*payments.CheckoutSession, error) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	session, err := s.provider.CreateBlockCheckout(clientID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return session, nil
}

// VerifyBlockPurchase credits one block once per completed checkout
// session. A session that was already processed returns the current
// client state without incrementing again.
func (s *billingService) VerifyBlockPurchase(clientID uint, sessionID string) (*models.Client, error) {
	if sessionID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "session id is required")
	}

	verification, err := s.provider.VerifyCheckout(sessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if verification.ClientID != clientID {
		return nil, apperrors.ErrForbidden
	}
	if !verification.Paid {
		return nil, apperrors.ErrPaymentNotCompleted
	}

	var client models.Client
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ProcessedPaymentSession
		err := tx.Where("session_id = ?", sessionID).First(&existing).Error
		if err == nil {
			// Replay: the block was already credited.
			logger.Get().Infow("checkout session already processed", "session_id", sessionID, "client_id", clientID)
			return tx.First(&client, clientID).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.ProcessedPaymentSession{
			SessionID: sessionID,
			ClientID:  clientID,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Client{}).Where("id = ?", clientID).
			UpdateColumn("charged_blocks", gorm.Expr("charged_blocks + 1")).Error; err != nil {
			return err
		}

		return tx.First(&client, clientID).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &client, nil
}
