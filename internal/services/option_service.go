package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "configly/internal/errors"
	"configly/internal/models"
)

// optionService handles option and edge business logic.
type optionService struct {
	db *gorm.DB
}

// NewOptionService creates a new OptionServicer.
func NewOptionService(db *gorm.DB) OptionServicer {
	return &optionService{db: db}
}

// Create creates an option in a client-owned category. For primary
// categories the plan-limit count and the insert run in one
// transaction so concurrent creates cannot slip past the cap. Requested
// incompatibility edges are applied leniently: targets that do not
// exist or live in another configurator are skipped and reported, not
// errors.
func (s *optionService) Create(clientID, categoryID uint, in OptionInput) (*models.Option, []uint, error) {
	if in.Label == "" {
		return nil, nil, apperrors.WithMessage(apperrors.ErrValidation, "option label is required")
	}
	if in.Price.IsNegative() {
		return nil, nil, apperrors.WithMessage(apperrors.ErrValidation, "option price cannot be negative")
	}

	category, configuratorID, ownerID, err := s.categoryWithOwner(clientID, categoryID)
	if err != nil {
		return nil, nil, err
	}

	option := &models.Option{
		CategoryID:  categoryID,
		Label:       in.Label,
		Description: in.Description,
		Price:       in.Price,
		SKU:         in.SKU,
		ImageURL:    in.ImageURL,
		IsDefault:   in.IsDefault,
	}

	var skipped []uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if category.IsPrimary {
			var client models.Client
			if err := tx.First(&client, ownerID).Error; err != nil {
				return err
			}
			count, err := countPrimaryOptions(tx, ownerID)
			if err != nil {
				return err
			}
			if count >= int64(PrimaryOptionLimit(client.ChargedBlocks)) {
				return apperrors.ErrPlanLimit
			}
		}

		if err := tx.Create(option).Error; err != nil {
			return err
		}

		var err error
		_, skipped, err = s.applyIncompatibilities(tx, configuratorID, option.ID, in.IncompatibleWith)
		if err != nil {
			return err
		}

		for _, dependsOn := range in.Requires {
			if err := s.createDependency(tx, configuratorID, option.ID, dependsOn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, nil, appErr
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return option, skipped, nil
}

// GetByID retrieves an option with its rules, scoped to the owning client.
func (s *optionService) GetByID(clientID, optionID uint) (*models.Option, error) {
	var option models.Option
	err := s.db.Preload("Rules").
		Joins("JOIN categories ON categories.id = options.category_id").
		Joins("JOIN configurators ON configurators.id = categories.configurator_id").
		Where("options.id = ? AND configurators.client_id = ?", optionID, clientID).
		First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOptionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &option, nil
}

// Update updates option fields if provided.
func (s *optionService) Update(clientID, optionID uint, in OptionUpdate) (*models.Option, error) {
	option, err := s.GetByID(clientID, optionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Label != "" {
		updates["label"] = in.Label
	}
	if in.Description != "" {
		updates["description"] = in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "option price cannot be negative")
		}
		updates["price"] = *in.Price
	}
	if in.SKU != "" {
		updates["sku"] = in.SKU
	}
	if in.ImageURL != "" {
		updates["image_url"] = in.ImageURL
	}
	if in.IsDefault != nil {
		updates["is_default"] = *in.IsDefault
	}

	if len(updates) > 0 {
		if err := s.db.Model(option).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return option, nil
}

// Delete deletes an option and every edge that references it from
// either side.
func (s *optionService) Delete(clientID, optionID uint) error {
	option, err := s.GetByID(clientID, optionID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("option_id = ? OR related_option_id = ?", option.ID, option.ID).
			Delete(&models.OptionRule{}).Error; err != nil {
			return err
		}
		return tx.Delete(option).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddIncompatibilities marks the option incompatible with each target,
// storing both edge directions. Unknown and cross-configurator targets
// are skipped and returned so partial applies are visible to callers.
func (s *optionService) AddIncompatibilities(clientID, optionID uint, targets []uint) ([]models.OptionRule, []uint, error) {
	_, err := s.GetByID(clientID, optionID)
	if err != nil {
		return nil, nil, err
	}

	configuratorID, err := s.configuratorForOption(s.db, optionID)
	if err != nil {
		return nil, nil, err
	}

	var created []models.OptionRule
	var skipped []uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		created, skipped, err = s.applyIncompatibilities(tx, configuratorID, optionID, targets)
		return err
	})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return created, skipped, nil
}

// AddDependency creates the directed "requires" edge. Unlike
// incompatibilities the relation is asymmetric and the target must
// resolve.
func (s *optionService) AddDependency(clientID, optionID, dependsOn uint) (*models.OptionRule, error) {
	_, err := s.GetByID(clientID, optionID)
	if err != nil {
		return nil, err
	}

	configuratorID, err := s.configuratorForOption(s.db, optionID)
	if err != nil {
		return nil, err
	}

	if err := s.createDependency(s.db, configuratorID, optionID, dependsOn); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rule models.OptionRule
	if err := s.db.Where("option_id = ? AND related_option_id = ? AND type = ?",
		optionID, dependsOn, models.RuleRequires).First(&rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rule, nil
}

// applyIncompatibilities creates bidirectional incompatibility edges for
// every target resolvable within the same configurator.
func (s *optionService) applyIncompatibilities(tx *gorm.DB, configuratorID, optionID uint, targets []uint) ([]models.OptionRule, []uint, error) {
	var created []models.OptionRule
	var skipped []uint

	for _, target := range targets {
		if target == optionID {
			skipped = append(skipped, target)
			continue
		}

		targetConfigurator, err := s.configuratorForOption(tx, target)
		if err != nil || targetConfigurator != configuratorID {
			skipped = append(skipped, target)
			continue
		}

		forward := models.OptionRule{OptionID: optionID, RelatedOptionID: target, Type: models.RuleIncompatible}
		if err := tx.Where(models.OptionRule{OptionID: optionID, RelatedOptionID: target, Type: models.RuleIncompatible}).
			FirstOrCreate(&forward).Error; err != nil {
			return nil, nil, err
		}

		reverse := models.OptionRule{OptionID: target, RelatedOptionID: optionID, Type: models.RuleIncompatible}
		if err := tx.Where(models.OptionRule{OptionID: target, RelatedOptionID: optionID, Type: models.RuleIncompatible}).
			FirstOrCreate(&reverse).Error; err != nil {
			return nil, nil, err
		}

		created = append(created, forward)
	}

	return created, skipped, nil
}

func (s *optionService) createDependency(tx *gorm.DB, configuratorID, optionID, dependsOn uint) error {
	if dependsOn == optionID {
		return apperrors.WithMessage(apperrors.ErrValidation, "an option cannot require itself")
	}
	targetConfigurator, err := s.configuratorForOption(tx, dependsOn)
	if err != nil || targetConfigurator != configuratorID {
		return apperrors.WithMessage(apperrors.ErrOptionNotFound, "dependency target not found in this configurator")
	}

	rule := models.OptionRule{OptionID: optionID, RelatedOptionID: dependsOn, Type: models.RuleRequires}
	return tx.Where(models.OptionRule{OptionID: optionID, RelatedOptionID: dependsOn, Type: models.RuleRequires}).
		FirstOrCreate(&rule).Error
}

// configuratorForOption resolves the configurator an option belongs to.
func (s *optionService) configuratorForOption(tx *gorm.DB, optionID uint) (uint, error) {
	var category models.Category
	err := tx.Model(&models.Category{}).
		Joins("JOIN options ON options.category_id = categories.id").
		Where("options.id = ?", optionID).
		First(&category).Error
	if err != nil {
		return 0, err
	}
	return category.ConfiguratorID, nil
}

// categoryWithOwner loads a category scoped to the client and returns
// it with its configurator and owner IDs.
func (s *optionService) categoryWithOwner(clientID, categoryID uint) (*models.Category, uint, uint, error) {
	var category models.Category
	err := s.db.
		Joins("JOIN configurators ON configurators.id = categories.configurator_id").
		Where("categories.id = ? AND configurators.client_id = ?", categoryID, clientID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, 0, apperrors.ErrCategoryNotFound
		}
		return nil, 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, category.ConfiguratorID, clientID, nil
}
