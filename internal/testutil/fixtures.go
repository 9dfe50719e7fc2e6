package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"configly/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestClient creates a client with a hashed password, unique email,
// and unique public key.
func CreateTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()
	email := fmt.Sprintf("client%d@test.com", nextID())
	return CreateTestClientWithEmail(t, db, email)
}

// CreateTestClientWithEmail creates a client with the given email.
func CreateTestClientWithEmail(t *testing.T, db *gorm.DB, email string) *models.Client {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	client := &models.Client{
		Email:          email,
		Password:       string(hash),
		CompanyName:    fmt.Sprintf("Test Co %d", nextID()),
		IsActive:       true,
		PublicKey:      fmt.Sprintf("pk_test%d", nextID()),
		AllowedDomains: models.StringList{},
		RequestLimit:   10000,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestConfigurator creates a published configurator for the client.
func CreateTestConfigurator(t *testing.T, db *gorm.DB, clientID uint) *models.Configurator {
	t.Helper()

	cfg := &models.Configurator{
		ClientID:       clientID,
		PublicID:       fmt.Sprintf("cfg_test%d", nextID()),
		Name:           fmt.Sprintf("Test Configurator %d", nextID()),
		CurrencyCode:   "USD",
		CurrencySymbol: "$",
		Published:      true,
	}
	if err := db.Create(cfg).Error; err != nil {
		t.Fatalf("failed to create test configurator: %v", err)
	}
	return cfg
}

// CreateTestCategory creates a non-primary, optional category.
func CreateTestCategory(t *testing.T, db *gorm.DB, configuratorID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		ConfiguratorID: configuratorID,
		Name:           fmt.Sprintf("Test Category %d", nextID()),
		Type:           models.CategoryTypeGeneric,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestPrimaryCategory creates a primary category, whose options
// count against the client's plan capacity.
func CreateTestPrimaryCategory(t *testing.T, db *gorm.DB, configuratorID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		ConfiguratorID: configuratorID,
		Name:           fmt.Sprintf("Test Primary Category %d", nextID()),
		Type:           models.CategoryTypeGeneric,
		IsPrimary:      true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test primary category: %v", err)
	}
	return category
}

// CreateTestOption creates an option with the given price.
func CreateTestOption(t *testing.T, db *gorm.DB, categoryID uint, price string) *models.Option {
	t.Helper()

	option := &models.Option{
		CategoryID: categoryID,
		Label:      fmt.Sprintf("Test Option %d", nextID()),
		Price:      decimal.RequireFromString(price),
	}
	if err := db.Create(option).Error; err != nil {
		t.Fatalf("failed to create test option: %v", err)
	}
	return option
}

// CreateTestRule creates a single directed rule edge.
func CreateTestRule(t *testing.T, db *gorm.DB, optionID, relatedID uint, ruleType models.RuleType) *models.OptionRule {
	t.Helper()

	rule := &models.OptionRule{
		OptionID:        optionID,
		RelatedOptionID: relatedID,
		Type:            ruleType,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}
	return rule
}

// CreateTestIncompatibility creates both directions of an
// incompatibility edge, matching how the option service stores them.
func CreateTestIncompatibility(t *testing.T, db *gorm.DB, optionA, optionB uint) {
	t.Helper()
	CreateTestRule(t, db, optionA, optionB, models.RuleIncompatible)
	CreateTestRule(t, db, optionB, optionA, models.RuleIncompatible)
}

// CreateTestQuote creates a pending quote with a unique code.
func CreateTestQuote(t *testing.T, db *gorm.DB, clientID uint) *models.Quote {
	t.Helper()

	quote := &models.Quote{
		ClientID:        clientID,
		QuoteCode:       fmt.Sprintf("Q-TEST-%06d", nextID()),
		CustomerEmail:   fmt.Sprintf("customer%d@test.com", nextID()),
		SelectedOptions: "{}",
		TotalPrice:      decimal.RequireFromString("100.00"),
		CurrencyCode:    "USD",
		Status:          models.QuoteStatusPending,
	}
	if err := db.Create(quote).Error; err != nil {
		t.Fatalf("failed to create test quote: %v", err)
	}
	return quote
}
