package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/pagination"
)

// configuratorService handles configurator business logic.
type configuratorService struct {
	db *gorm.DB
}

// NewConfiguratorService creates a new ConfiguratorServicer.
func NewConfiguratorService(db *gorm.DB) ConfiguratorServicer {
	return &configuratorService{db: db}
}

// newPublicID mints the shareable identifier embeds use to address a
// configurator.
func newPublicID() string {
	return "cfg_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Create creates an unpublished configurator.
func (s *configuratorService) Create(clientID uint, name, description, currencyCode, currencySymbol string) (*models.Configurator, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "configurator name is required")
	}

	cfg := &models.Configurator{
		ClientID:    clientID,
		PublicID:    newPublicID(),
		Name:        name,
		Description: description,
	}
	if currencyCode != "" {
		cfg.CurrencyCode = currencyCode
	}
	if currencySymbol != "" {
		cfg.CurrencySymbol = currencySymbol
	}

	if err := s.db.Create(cfg).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cfg, nil
}

// GetClientConfigurators retrieves a paginated list of the client's
// configurators.
func (s *configuratorService) GetClientConfigurators(clientID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Configurator], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Configurator{}).Where("client_id = ?", clientID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var configurators []models.Configurator
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&configurators).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(configurators, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetByID retrieves a configurator with its full category/option/rule
// graph, scoped to the owning client.
func (s *configuratorService) GetByID(clientID, configuratorID uint) (*models.Configurator, error) {
	var cfg models.Configurator
	err := s.db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Categories.Options").
		Preload("Categories.Options.Rules").
		Preload("Theme").
		Where("id = ? AND client_id = ?", configuratorID, clientID).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConfiguratorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cfg, nil
}

// Update updates configurator fields if provided.
func (s *configuratorService) Update(clientID, configuratorID uint, name, description, currencyCode, currencySymbol string, themeID *uint) (*models.Configurator, error) {
	cfg, err := s.getOwned(clientID, configuratorID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if currencyCode != "" {
		updates["currency_code"] = currencyCode
	}
	if currencySymbol != "" {
		updates["currency_symbol"] = currencySymbol
	}
	if themeID != nil {
		var theme models.Theme
		if err := s.db.Where("id = ? AND client_id = ?", *themeID, clientID).First(&theme).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrThemeNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["theme_id"] = themeID
	}

	if len(updates) > 0 {
		if err := s.db.Model(cfg).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return cfg, nil
}

// SetPublished toggles the published flag.
func (s *configuratorService) SetPublished(clientID, configuratorID uint, published bool) (*models.Configurator, error) {
	cfg, err := s.getOwned(clientID, configuratorID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(cfg).Update("published", published).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	cfg.Published = published
	return cfg, nil
}

// Delete removes a configurator and everything it owns: categories,
// options, option edges, and quotes.
func (s *configuratorService) Delete(clientID, configuratorID uint) error {
	cfg, err := s.getOwned(clientID, configuratorID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var categoryIDs []uint
		if err := tx.Model(&models.Category{}).Where("configurator_id = ?", cfg.ID).
			Pluck("id", &categoryIDs).Error; err != nil {
			return err
		}

		if len(categoryIDs) > 0 {
			var optionIDs []uint
			if err := tx.Model(&models.Option{}).Where("category_id IN ?", categoryIDs).
				Pluck("id", &optionIDs).Error; err != nil {
				return err
			}
			if len(optionIDs) > 0 {
				if err := tx.Where("option_id IN ? OR related_option_id IN ?", optionIDs, optionIDs).
					Delete(&models.OptionRule{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", optionIDs).Delete(&models.Option{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", categoryIDs).Delete(&models.Category{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("configurator_id = ?", cfg.ID).Delete(&models.Quote{}).Error; err != nil {
			return err
		}

		return tx.Delete(cfg).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetPublishedGraph resolves a published configurator by public ID for
// embed reads. The lookup is scoped by (publicID, clientID): a guessed
// public ID under the wrong key resolves to nothing.
func (s *configuratorService) GetPublishedGraph(clientID uint, publicID string) (*models.Configurator, error) {
	var cfg models.Configurator
	err := s.db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Categories.Options").
		Preload("Categories.Options.Rules").
		Preload("Theme").
		Where("public_id = ? AND client_id = ? AND published = ?", publicID, clientID, true).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConfiguratorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cfg, nil
}

// getOwned loads a configurator without preloads, scoped to the client.
func (s *configuratorService) getOwned(clientID, configuratorID uint) (*models.Configurator, error) {
	var cfg models.Configurator
	if err := s.db.Where("id = ? AND client_id = ?", configuratorID, clientID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConfiguratorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cfg, nil
}
