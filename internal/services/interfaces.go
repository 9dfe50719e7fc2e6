package services

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"configly/internal/models"
	"configly/internal/pagination"
	"configly/internal/payments"
	"configly/internal/selection"
)

// ClientServicer defines the contract for client account logic.
type ClientServicer interface {
	Register(email, password, companyName string) (*models.Client, error)
	AttemptLogin(email, password string) (*models.Client, error)
	GetByID(id uint) (*models.Client, error)
	UpdateAllowedDomains(clientID uint, domains []string) (*models.Client, error)
	StoreRefreshTokenHash(clientID uint, tokenHash string) error
	GetRefreshTokenHash(clientID uint) (string, error)
}

// ConfiguratorServicer defines the contract for configurator management.
type ConfiguratorServicer interface {
	Create(clientID uint, name, description, currencyCode, currencySymbol string) (*models.Configurator, error)
	GetClientConfigurators(clientID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Configurator], error)
	GetByID(clientID, configuratorID uint) (*models.Configurator, error)
	Update(clientID, configuratorID uint, name, description, currencyCode, currencySymbol string, themeID *uint) (*models.Configurator, error)
	SetPublished(clientID, configuratorID uint, published bool) (*models.Configurator, error)
	Delete(clientID, configuratorID uint) error
	// GetPublishedGraph resolves a published configurator by public ID,
	// scoped to the owning client so a valid key for one client can never
	// retrieve another client's configurator.
	GetPublishedGraph(clientID uint, publicID string) (*models.Configurator, error)
}

// CategoryServicer defines the contract for category management.
type CategoryServicer interface {
	Create(clientID, configuratorID uint, name string, categoryType models.CategoryType, isPrimary *bool, isRequired bool, sortOrder int) (*models.Category, error)
	List(clientID, configuratorID uint) ([]models.Category, error)
	GetByID(clientID, categoryID uint) (*models.Category, error)
	Update(clientID, categoryID uint, name string, categoryType models.CategoryType, isPrimary, isRequired *bool, sortOrder *int) (*models.Category, error)
	Delete(clientID, categoryID uint) error
}

// OptionInput carries the fields for creating an option, including the
// compatibility edges to apply in the same operation.
type OptionInput struct {
	Label            string
	Description      string
	Price            decimal.Decimal
	SKU              string
	ImageURL         string
	IsDefault        bool
	IncompatibleWith []uint
	Requires         []uint
}

// OptionUpdate carries partial option field updates.
type OptionUpdate struct {
	Label       string
	Description string
	Price       *decimal.Decimal
	SKU         string
	ImageURL    string
	IsDefault   *bool
}

// OptionServicer defines the contract for option and edge management.
type OptionServicer interface {
	// Create returns the option plus the incompatibility targets that
	// were skipped (missing or cross-configurator).
	Create(clientID, categoryID uint, in OptionInput) (*models.Option, []uint, error)
	GetByID(clientID, optionID uint) (*models.Option, error)
	Update(clientID, optionID uint, in OptionUpdate) (*models.Option, error)
	Delete(clientID, optionID uint) error
	AddIncompatibilities(clientID, optionID uint, targets []uint) ([]models.OptionRule, []uint, error)
	AddDependency(clientID, optionID, dependsOn uint) (*models.OptionRule, error)
}

// QuoteInput carries a quote submission from either the embed or the
// dashboard.
type QuoteInput struct {
	ConfiguratorID  *uint
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerCompany string
	Message         string
	Selection       selection.Selection
	Quantities      selection.Quantities
	Configuration   string
	// TotalPrice is honored only when no configurator context exists to
	// recompute it from.
	TotalPrice *decimal.Decimal
}

// QuoteServicer defines the contract for the quote lifecycle.
type QuoteServicer interface {
	CreateFromEmbed(client *models.Client, publicID string, in QuoteInput) (*models.Quote, error)
	Create(clientID uint, in QuoteInput) (*models.Quote, error)
	GetByCode(code string) (*models.Quote, error)
	List(clientID uint, page pagination.PageRequest, status *models.QuoteStatus) (*pagination.PageResponse[models.Quote], error)
	GetByID(clientID, quoteID uint) (*models.Quote, error)
	UpdateContact(clientID, quoteID uint, name, email, phone, company, message string) (*models.Quote, error)
	UpdateStatus(clientID, quoteID uint, status models.QuoteStatus) (*models.Quote, error)
	Delete(clientID, quoteID uint) error
}

// ThemeInput carries partial theme updates. Empty strings leave the
// stored value untouched.
type ThemeInput struct {
	Name            string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	BackgroundColor string
	SurfaceColor    string
	TextColor       string
	TextColorMode   models.TextColorMode
	CustomTextColor string
	FontFamily      string
	BorderRadius    string
	SpacingUnit     string
	MaxWidth        string
}

// ThemeServicer defines the contract for theme management.
type ThemeServicer interface {
	// GetActive returns the client's active theme, creating the platform
	// default when none exists.
	GetActive(clientID uint) (*models.Theme, error)
	Upsert(clientID uint, in ThemeInput) (*models.Theme, error)
	Reset(clientID uint) (*models.Theme, error)
}

// Usage summarizes primary-option consumption against the plan limit.
type Usage struct {
	Included     int   `json:"included"`
	Used         int64 `json:"used"`
	Remaining    int64 `json:"remaining"`
	LimitReached bool  `json:"limit_reached"`
}

// BillingServicer defines the contract for plan capacity and block
// purchases.
type BillingServicer interface {
	Usage(clientID uint) (*Usage, error)
	StartBlockCheckout(clientID uint) (*payments.CheckoutSession, error)
	// VerifyBlockPurchase credits one capacity block for a completed
	// checkout session. Replays of the same session are no-ops.
	VerifyBlockPurchase(clientID uint, sessionID string) (*models.Client, error)
}

// FileServicer defines the contract for client file uploads.
type FileServicer interface {
	Upload(ctx context.Context, clientID uint, fileName, contentType string, size int64, body io.Reader) (*models.File, error)
	List(clientID uint, page pagination.PageRequest) (*pagination.PageResponse[models.File], error)
	PresignedURL(ctx context.Context, clientID, fileID uint) (string, error)
	Delete(ctx context.Context, clientID, fileID uint) error
}
