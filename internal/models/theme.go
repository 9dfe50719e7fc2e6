package models

// TextColorMode selects how the embed's foreground text color is derived.
type TextColorMode string

const (
	TextColorModeAuto   TextColorMode = "AUTO"
	TextColorModeWhite  TextColorMode = "WHITE"
	TextColorModeBlack  TextColorMode = "BLACK"
	TextColorModeCustom TextColorMode = "CUSTOM"
)

// Theme stores the presentation settings a client applies to their
// embeds. Exactly one theme per client should be both default and
// active; this is an advisory invariant maintained by the theme
// service, not a database constraint.
type Theme struct {
	Base
	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Name     string `gorm:"default:Default" json:"name"`

	PrimaryColor    string `gorm:"default:#3b82f6" json:"primary_color"`
	SecondaryColor  string `gorm:"default:#64748b" json:"secondary_color"`
	AccentColor     string `gorm:"default:#8b5cf6" json:"accent_color"`
	BackgroundColor string `gorm:"default:#ffffff" json:"background_color"`
	SurfaceColor    string `gorm:"default:#f8fafc" json:"surface_color"`
	TextColor       string `gorm:"default:#0f172a" json:"text_color"`

	TextColorMode   TextColorMode `gorm:"default:AUTO" json:"text_color_mode"`
	CustomTextColor string        `json:"custom_text_color"`

	FontFamily   string `gorm:"default:Inter" json:"font_family"`
	BorderRadius string `gorm:"default:0.5rem" json:"border_radius"`
	SpacingUnit  string `gorm:"default:1rem" json:"spacing_unit"`
	MaxWidth     string `gorm:"default:900px" json:"max_width"`

	IsDefault bool `gorm:"default:false" json:"is_default"`
	IsActive  bool `gorm:"default:false" json:"is_active"`
}
