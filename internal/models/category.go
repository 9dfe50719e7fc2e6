package models

// CategoryType tags what kind of choice a category presents.
type CategoryType string

const (
	CategoryTypeGeneric   CategoryType = "generic"
	CategoryTypeColor     CategoryType = "color"
	CategoryTypeDimension CategoryType = "dimension"
	CategoryTypeMaterial  CategoryType = "material"
	CategoryTypeFeature   CategoryType = "feature"
	CategoryTypeAccessory CategoryType = "accessory"
	CategoryTypePower     CategoryType = "power"
	CategoryTypeText      CategoryType = "text"
	CategoryTypeFinish    CategoryType = "finish"
	CategoryTypeCustom    CategoryType = "custom"
)

// Category groups mutually-selectable options within a configurator.
// A customer picks at most one option per category. IsPrimary categories
// count their options against the client's plan capacity; IsRequired
// categories must have a selection before a quote can be completed.
type Category struct {
	Base
	ConfiguratorID uint         `gorm:"not null;index" json:"configurator_id"`
	Name           string       `gorm:"not null" json:"name"`
	Type           CategoryType `gorm:"default:generic" json:"type"`
	SortOrder      int          `gorm:"default:0" json:"sort_order"`
	IsPrimary      bool         `gorm:"default:false" json:"is_primary"`
	IsRequired     bool         `gorm:"default:false" json:"is_required"`

	// Relationships
	Options []Option `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}
