package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"configly/internal/email"
	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/pagination"
	"configly/internal/pricing"
	"configly/internal/quotecode"
	"configly/internal/selection"
)

// quoteService handles the quote lifecycle.
type quoteService struct {
	db              *gorm.DB
	emails          *email.Dispatcher
	teamAddr        string
	enforceTerminal bool
}

// NewQuoteService creates a new QuoteServicer. When enforceTerminal is
// set, accepted, rejected, and converted quotes reject further status
// changes.
func NewQuoteService(db *gorm.DB, emails *email.Dispatcher, teamAddr string, enforceTerminal bool) QuoteServicer {
	return &quoteService{db: db, emails: emails, teamAddr: teamAddr, enforceTerminal: enforceTerminal}
}

// CreateFromEmbed validates an embed visitor's selection against the
// published configurator, recomputes the total server-side, and
// persists the quote. Any client-supplied total is ignored on this path.
func (s *quoteService) CreateFromEmbed(client *models.Client, publicID string, in QuoteInput) (*models.Quote, error) {
	if in.CustomerEmail == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "customer email is required")
	}

	var configurator models.Configurator
	err := s.db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.sort_order ASC") }).
		Preload("Categories.Options").
		Preload("Categories.Options.Rules").
		Where("public_id = ? AND client_id = ? AND published = ?", publicID, client.ID, true).
		First(&configurator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConfiguratorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := validateSelection(configurator.Categories, in.Selection); err != nil {
		return nil, err
	}

	total, err := pricing.Evaluate(configurator.Categories, in.Selection, in.Quantities)
	if err != nil {
		return nil, err
	}

	quote, err := s.persist(client.ID, &configurator.ID, configurator.CurrencyCode, total, in)
	if err != nil {
		return nil, err
	}

	s.notify(quote)
	return quote, nil
}

// Create creates a quote from the dashboard. With a configurator the
// total is recomputed exactly as on the embed path; without one the
// caller's total is taken at face value.
func (s *quoteService) Create(clientID uint, in QuoteInput) (*models.Quote, error) {
	if in.CustomerEmail == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "customer email is required")
	}

	currencyCode := "USD"
	total := decimal.Zero
	var configuratorID *uint

	if in.ConfiguratorID != nil {
		var configurator models.Configurator
		err := s.db.
			Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.sort_order ASC") }).
			Preload("Categories.Options").
			Preload("Categories.Options.Rules").
			Where("id = ? AND client_id = ?", *in.ConfiguratorID, clientID).
			First(&configurator).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrConfiguratorNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := validateSelection(configurator.Categories, in.Selection); err != nil {
			return nil, err
		}
		total, err = pricing.Evaluate(configurator.Categories, in.Selection, in.Quantities)
		if err != nil {
			return nil, err
		}
		currencyCode = configurator.CurrencyCode
		configuratorID = &configurator.ID
	} else {
		if in.TotalPrice == nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "total price is required without a configurator")
		}
		if in.TotalPrice.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "total price cannot be negative")
		}
		total = *in.TotalPrice
	}

	quote, err := s.persist(clientID, configuratorID, currencyCode, total, in)
	if err != nil {
		return nil, err
	}

	s.notify(quote)
	return quote, nil
}

// GetByCode looks up a quote by its code and records the open. The code
// is the only credential; there is no client scoping on this path.
func (s *quoteService) GetByCode(code string) (*models.Quote, error) {
	if !quotecode.Pattern.MatchString(code) {
		return nil, apperrors.ErrQuoteNotFound
	}

	var quote models.Quote
	if err := s.db.Where("quote_code = ?", code).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuoteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	if err := s.db.Model(&quote).Updates(map[string]interface{}{
		"open_count":     gorm.Expr("open_count + 1"),
		"last_opened_at": now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	quote.OpenCount++
	quote.LastOpenedAt = &now

	return &quote, nil
}

// List returns the client's quotes, newest first, optionally filtered
// by status.
func (s *quoteService) List(clientID uint, page pagination.PageRequest, status *models.QuoteStatus) (*pagination.PageResponse[models.Quote], error) {
	page.Defaults()

	base := s.db.Model(&models.Quote{}).Where("client_id = ?", clientID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var quotes []models.Quote
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&quotes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(quotes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetByID retrieves a quote scoped to the owning client.
func (s *quoteService) GetByID(clientID, quoteID uint) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.Where("id = ? AND client_id = ?", quoteID, clientID).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuoteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &quote, nil
}

// UpdateContact updates the customer contact fields on a quote.
func (s *quoteService) UpdateContact(clientID, quoteID uint, name, customerEmail, phone, company, message string) (*models.Quote, error) {
	quote, err := s.GetByID(clientID, quoteID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["customer_name"] = name
	}
	if customerEmail != "" {
		updates["customer_email"] = customerEmail
	}
	if phone != "" {
		updates["customer_phone"] = phone
	}
	if company != "" {
		updates["customer_company"] = company
	}
	if message != "" {
		updates["message"] = message
	}

	if len(updates) > 0 {
		if err := s.db.Model(quote).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return quote, nil
}

// UpdateStatus moves a quote to a new lifecycle status. Terminal quotes
// reject the transition when enforcement is on.
func (s *quoteService) UpdateStatus(clientID, quoteID uint, status models.QuoteStatus) (*models.Quote, error) {
	quote, err := s.GetByID(clientID, quoteID)
	if err != nil {
		return nil, err
	}

	if s.enforceTerminal && quote.Status.IsTerminal() {
		return nil, apperrors.WithMessage(apperrors.ErrQuoteTerminal,
			fmt.Sprintf("Quote is %s and cannot change status", quote.Status))
	}

	if err := s.db.Model(quote).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	quote.Status = status
	return quote, nil
}

// Delete deletes a quote.
func (s *quoteService) Delete(clientID, quoteID uint) error {
	quote, err := s.GetByID(clientID, quoteID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(quote).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *quoteService) persist(clientID uint, configuratorID *uint, currencyCode string, total decimal.Decimal, in QuoteInput) (*models.Quote, error) {
	selected, err := json.Marshal(in.Selection)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	quote := &models.Quote{
		ClientID:        clientID,
		ConfiguratorID:  configuratorID,
		QuoteCode:       quotecode.Generate(),
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		CustomerCompany: in.CustomerCompany,
		Message:         in.Message,
		SelectedOptions: string(selected),
		Configuration:   in.Configuration,
		TotalPrice:      total,
		CurrencyCode:    currencyCode,
		Status:          models.QuoteStatusPending,
	}

	if err := s.db.Create(quote).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return quote, nil
}

func (s *quoteService) notify(quote *models.Quote) {
	s.emails.Dispatch(email.QuoteConfirmation(quote))
	if s.teamAddr != "" {
		s.emails.Dispatch(email.TeamNotification(quote, s.teamAddr))
	}
}

// validateSelection maps a selection validation result onto the
// corresponding error, naming the offending IDs.
func validateSelection(categories []models.Category, sel selection.Selection) error {
	result := selection.Validate(categories, sel)
	switch result.Status {
	case selection.Conflict:
		return apperrors.WithMessage(apperrors.ErrIncompatibleSelection,
			fmt.Sprintf("Options %d and %d are incompatible", result.OptionA, result.OptionB))
	case selection.MissingDependency:
		return apperrors.WithMessage(apperrors.ErrMissingDependency,
			fmt.Sprintf("Option %d requires option %d", result.Option, result.Required))
	case selection.MissingRequired:
		return apperrors.WithMessage(apperrors.ErrMissingRequired,
			fmt.Sprintf("Category %d requires a selection", result.CategoryID))
	}
	return nil
}
