package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "configly/internal/errors"
	"configly/internal/models"
)

// categoryService handles category business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// Create creates a category in a client-owned configurator. The first
// category of a configurator defaults to primary; later categories are
// primary only when explicitly requested.
func (s *categoryService) Create(clientID, configuratorID uint, name string, categoryType models.CategoryType, isPrimary *bool, isRequired bool, sortOrder int) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category name is required")
	}

	var cfg models.Configurator
	if err := s.db.Where("id = ? AND client_id = ?", configuratorID, clientID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConfiguratorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if categoryType == "" {
		categoryType = models.CategoryTypeGeneric
	}

	primary := false
	if isPrimary != nil {
		primary = *isPrimary
	} else {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("configurator_id = ?", configuratorID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		primary = count == 0
	}

	category := &models.Category{
		ConfiguratorID: configuratorID,
		Name:           name,
		Type:           categoryType,
		SortOrder:      sortOrder,
		IsPrimary:      primary,
		IsRequired:     isRequired,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// List retrieves the configurator's categories with options, in sort
// order.
func (s *categoryService) List(clientID, configuratorID uint) ([]models.Category, error) {
	var cfg models.Configurator
	if err := s.db.Where("id = ? AND client_id = ?", configuratorID, clientID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConfiguratorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Preload("Options").Preload("Options.Rules").
		Where("configurator_id = ?", configuratorID).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetByID retrieves a category scoped to the owning client.
func (s *categoryService) GetByID(clientID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := s.db.
		Joins("JOIN configurators ON configurators.id = categories.configurator_id").
		Where("categories.id = ? AND configurators.client_id = ?", categoryID, clientID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// Update updates category fields if provided.
func (s *categoryService) Update(clientID, categoryID uint, name string, categoryType models.CategoryType, isPrimary, isRequired *bool, sortOrder *int) (*models.Category, error) {
	category, err := s.GetByID(clientID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if categoryType != "" {
		updates["type"] = categoryType
	}
	if isPrimary != nil {
		updates["is_primary"] = *isPrimary
	}
	if isRequired != nil {
		updates["is_required"] = *isRequired
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// Delete deletes a category, its options, and their edges.
func (s *categoryService) Delete(clientID, categoryID uint) error {
	category, err := s.GetByID(clientID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var optionIDs []uint
		if err := tx.Model(&models.Option{}).Where("category_id = ?", category.ID).
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
		return tx.Delete(category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
