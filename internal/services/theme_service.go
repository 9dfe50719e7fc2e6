package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/theming"
)

// themeService maintains each client's single active theme.
type themeService struct {
	db *gorm.DB
}

// NewThemeService creates a new ThemeServicer.
func NewThemeService(db *gorm.DB) ThemeServicer {
	return &themeService{db: db}
}

// GetActive returns the client's active theme. A client with no theme
// gets the platform default created on first access, so embeds always
// resolve a concrete theme row.
func (s *themeService) GetActive(clientID uint) (*models.Theme, error) {
	var theme models.Theme
	err := s.db.Where("client_id = ? AND is_active = ?", clientID, true).First(&theme).Error
	if err == nil {
		return &theme, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := theming.Default()
	created.ClientID = clientID
	if err := s.db.Create(&created).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &created, nil
}

// Upsert applies partial updates to the active theme, creating it from
// the default first when absent. Empty fields leave stored values
// untouched.
func (s *themeService) Upsert(clientID uint, in ThemeInput) (*models.Theme, error) {
	theme, err := s.GetActive(clientID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if in.PrimaryColor != "" {
		updates["primary_color"] = in.PrimaryColor
	}
	if in.SecondaryColor != "" {
		updates["secondary_color"] = in.SecondaryColor
	}
	if in.AccentColor != "" {
		updates["accent_color"] = in.AccentColor
	}
	if in.BackgroundColor != "" {
		updates["background_color"] = in.BackgroundColor
	}
	if in.SurfaceColor != "" {
		updates["surface_color"] = in.SurfaceColor
	}
	if in.TextColor != "" {
		updates["text_color"] = in.TextColor
	}
	if in.TextColorMode != "" {
		updates["text_color_mode"] = in.TextColorMode
	}
	if in.CustomTextColor != "" {
		updates["custom_text_color"] = in.CustomTextColor
	}
	if in.FontFamily != "" {
		updates["font_family"] = in.FontFamily
	}
	if in.BorderRadius != "" {
		updates["border_radius"] = in.BorderRadius
	}
	if in.SpacingUnit != "" {
		updates["spacing_unit"] = in.SpacingUnit
	}
	if in.MaxWidth != "" {
		updates["max_width"] = in.MaxWidth
	}

	if len(updates) > 0 {
		// Customized themes are no longer the platform default.
		updates["is_default"] = false
		if err := s.db.Model(theme).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.First(theme, theme.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return theme, nil
}

// Reset discards the client's themes and recreates the platform
// default as the active one.
func (s *themeService) Reset(clientID uint) (*models.Theme, error) {
	created := theming.Default()
	created.ClientID = clientID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", clientID).Delete(&models.Theme{}).Error; err != nil {
			return err
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &created, nil
}
