package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"configly/internal/email"
	"configly/internal/models"
	"configly/internal/quotecode"
	"configly/internal/selection"
	"configly/internal/testutil"
)

// quoteFixture is a published configurator with two categories and an
// incompatibility between a1 and b1.
type quoteFixture struct {
	client *models.Client
	cfg    *models.Configurator
	catA   *models.Category
	catB   *models.Category
	a1     *models.Option
	a2     *models.Option
	b1     *models.Option
}

func setupQuoteFixture(t *testing.T, db *gorm.DB) quoteFixture {
	t.Helper()
	client := testutil.CreateTestClient(t, db)
	cfg := testutil.CreateTestConfigurator(t, db, client.ID)
	catA := testutil.CreateTestCategory(t, db, cfg.ID)
	catB := testutil.CreateTestCategory(t, db, cfg.ID)
	a1 := testutil.CreateTestOption(t, db, catA.ID, "100.00")
	a2 := testutil.CreateTestOption(t, db, catA.ID, "150.00")
	b1 := testutil.CreateTestOption(t, db, catB.ID, "25.50")
	testutil.CreateTestIncompatibility(t, db, a1.ID, b1.ID)
	return quoteFixture{client: client, cfg: cfg, catA: catA, catB: catB, a1: a1, a2: a2, b1: b1}
}

func newQuoteService(db *gorm.DB) QuoteServicer {
	return NewQuoteService(db, email.NewDispatcher(nil), "", true)
}

func TestCreateFromEmbedRecomputesPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	fx := setupQuoteFixture(t, db)

	svc := newQuoteService(db)
	quote, err := svc.CreateFromEmbed(fx.client, fx.cfg.PublicID, QuoteInput{
		CustomerEmail: "buyer@test.com",
		Selection:     selection.Selection{fx.catA.ID: fx.a2.ID, fx.catB.ID: fx.b1.ID},
	})
	testutil.AssertNoError(t, err)

	if quote.TotalPrice.StringFixed(2) != "175.50" {
		t.Errorf("total = %s, want 175.50", quote.TotalPrice.StringFixed(2))
	}
	if !quotecode.Pattern.MatchString(quote.QuoteCode) {
		t.Errorf("quote code %q does not match pattern", quote.QuoteCode)
	}
	if quote.Status != models.QuoteStatusPending {
		t.Errorf("status = %s, want PENDING", quote.Status)
	}
	if quote.CurrencyCode != "USD" {
		t.Errorf("currency = %s", quote.CurrencyCode)
	}
	if !strings.Contains(quote.SelectedOptions, "{") {
		t.Errorf("selection snapshot not stored: %q", quote.SelectedOptions)
	}
}

func TestCreateFromEmbedAppliesQuantities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	fx := setupQuoteFixture(t, db)

	svc := newQuoteService(db)
	quote, err := svc.CreateFromEmbed(fx.client, fx.cfg.PublicID, QuoteInput{
		CustomerEmail: "buyer@test.com",
		Selection:     selection.Selection{fx.catA.ID: fx.a2.ID},
		Quantities:    selection.Quantities{fx.catA.ID: 3},
	})
	testutil.AssertNoError(t, err)
	if quote.TotalPrice.StringFixed(2) != "450.00" {
		t.Errorf("total = %s, want 450.00", quote.TotalPrice.StringFixed(2))
	}
}

func TestCreateFromEmbedRejectsIncompatibleSelection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	fx := setupQuoteFixture(t, db)

	svc := newQuoteService(db)
	_, err := svc.CreateFromEmbed(fx.client, fx.cfg.PublicID, QuoteInput{
		CustomerEmail: "buyer@test.com",
		Selection:     selection.Selection{fx.catA.ID: fx.a1.ID, fx.catB.ID: fx.b1.ID},
	})
	testutil.AssertAppError(t, err, "INCOMPATIBLE_SELECTION")
}

func TestCreateFromEmbedRejectsMissingDependency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	fx := setupQuoteFixture(t, db)
	testutil.CreateTestRule(t, db, fx.a2.ID, fx.b1.ID, models.RuleRequires)

	svc := newQuoteService(db)
	_, err := svc.CreateFromEmbed(fx.client, fx.cfg.PublicID, QuoteInput{
		CustomerEmail: "buyer@test.com",
		Selection:     selection.Selection{fx.catA.ID: fx.a2.ID},
	})
	testutil.AssertAppError(t, err, "MISSING_DEPENDENCY")
}

func TestCreateFromEmbedRejectsMissingRequiredCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	fx := setupQuoteFixture(t, db)
	testutil.AssertNoError(t, db.Model(fx.catB).UpdateColumn("is_required", true).Error)

	svc := newQuoteService(db)
	_, err := svc.CreateFromEmbed(fx.client, fx.cfg.PublicID, QuoteInput{
		CustomerEmail: "buyer@test.com",
		Selection:     selection.Selection{fx.catA.ID: fx.a2.ID},
	})
	testutil.AssertAppError(t, err, "MISSING_REQUIRED_CATEGORY")
}

func TestCreateFromEmbedUnpublishedConfigurator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	fx := setupQuoteFixture(t, db)
	testutil.AssertNoError(t, db.Model(fx.cfg).UpdateColumn("published", false).Error)

	svc := newQuoteService(db)
	_, err := svc.CreateFromEmbed(fx.client, fx.cfg.PublicID, QuoteInput{
		CustomerEmail: "buyer@test.com",
	})
	testutil.AssertAppError(t, err, "CONFIGURATOR_NOT_FOUND")
}

func TestCreateFromEmbedCrossClientScoping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	fx := setupQuoteFixture(t, db)
	other := testutil.CreateTestClient(t, db)

	// A valid public ID under the wrong client's key resolves to nothing.
	svc := newQuoteService(db)
	_, err := svc.CreateFromEmbed(other, fx.cfg.PublicID, QuoteInput{
		CustomerEmail: "buyer@test.com",
	})
	testutil.AssertAppError(t, err, "CONFIGURATOR_NOT_FOUND")
}

func TestCreateDashboardQuoteWithoutConfigurator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	client := testutil.CreateTestClient(t, db)

	svc := newQuoteService(db)
	price := decimal.RequireFromString("1234.56")
	quote, err := svc.Create(client.ID, QuoteInput{
		CustomerEmail: "manual@test.com",
		TotalPrice:    &price,
	})
	testutil.AssertNoError(t, err)
	if quote.TotalPrice.StringFixed(2) != "1234.56" {
		t.Errorf("total = %s", quote.TotalPrice.StringFixed(2))
	}

	_, err = svc.Create(client.ID, QuoteInput{CustomerEmail: "manual@test.com"})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")

	negative := decimal.RequireFromString("-5.00")
	_, err = svc.Create(client.ID, QuoteInput{CustomerEmail: "manual@test.com", TotalPrice: &negative})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
}

func TestCreateDashboardQuoteIgnoresSuppliedPriceWithConfigurator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	fx := setupQuoteFixture(t, db)

	svc := newQuoteService(db)
	bogus := decimal.RequireFromString("0.01")
	quote, err := svc.Create(fx.client.ID, QuoteInput{
		ConfiguratorID: &fx.cfg.ID,
		CustomerEmail:  "manual@test.com",
		Selection:      selection.Selection{fx.catA.ID: fx.a1.ID},
		TotalPrice:     &bogus,
	})
	testutil.AssertNoError(t, err)
	if quote.TotalPrice.StringFixed(2) != "100.00" {
		t.Errorf("total = %s, want recomputed 100.00", quote.TotalPrice.StringFixed(2))
	}
}

func TestGetByCodeCountsOpens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	client := testutil.CreateTestClient(t, db)
	created := testutil.CreateTestQuote(t, db, client.ID)

	svc := newQuoteService(db)
	first, err := svc.GetByCode(created.QuoteCode)
	testutil.AssertNoError(t, err)
	if first.OpenCount != 1 {
		t.Errorf("open count = %d, want 1", first.OpenCount)
	}
	if first.LastOpenedAt == nil {
		t.Error("last opened at not set")
	}

	second, err := svc.GetByCode(created.QuoteCode)
	testutil.AssertNoError(t, err)
	if second.OpenCount != 2 {
		t.Errorf("open count = %d, want 2", second.OpenCount)
	}

	_, err = svc.GetByCode("Q-NOPE-XXXXXX")
	testutil.AssertAppError(t, err, "QUOTE_NOT_FOUND")

	_, err = svc.GetByCode("not a code")
	testutil.AssertAppError(t, err, "QUOTE_NOT_FOUND")
}

func TestUpdateStatusTerminalEnforcement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	client := testutil.CreateTestClient(t, db)
	quote := testutil.CreateTestQuote(t, db, client.ID)

	svc := newQuoteService(db)
	updated, err := svc.UpdateStatus(client.ID, quote.ID, models.QuoteStatusAccepted)
	testutil.AssertNoError(t, err)
	if updated.Status != models.QuoteStatusAccepted {
		t.Fatalf("status = %s", updated.Status)
	}

	// Accepted is terminal: further transitions conflict.
	_, err = svc.UpdateStatus(client.ID, quote.ID, models.QuoteStatusRejected)
	testutil.AssertAppError(t, err, "QUOTE_TERMINAL")
}

func TestUpdateStatusTerminalEnforcementDisabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	client := testutil.CreateTestClient(t, db)
	quote := testutil.CreateTestQuote(t, db, client.ID)

	svc := NewQuoteService(db, email.NewDispatcher(nil), "", false)
	_, err := svc.UpdateStatus(client.ID, quote.ID, models.QuoteStatusAccepted)
	testutil.AssertNoError(t, err)

	// With enforcement off, terminal quotes may still move.
	updated, err := svc.UpdateStatus(client.ID, quote.ID, models.QuoteStatusRejected)
	testutil.AssertNoError(t, err)
	if updated.Status != models.QuoteStatusRejected {
		t.Errorf("status = %s", updated.Status)
	}
}

func TestQuoteListFiltersByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	client := testutil.CreateTestClient(t, db)

	for i := 0; i < 3; i++ {
		testutil.CreateTestQuote(t, db, client.ID)
	}
	accepted := testutil.CreateTestQuote(t, db, client.ID)
	testutil.AssertNoError(t, db.Model(accepted).UpdateColumn("status", models.QuoteStatusAccepted).Error)

	svc := newQuoteService(db)
	status := models.QuoteStatusAccepted
	result, err := svc.List(client.ID, pageRequest(1, 10), &status)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Errorf("filtered total = %d, want 1", result.TotalItems)
	}

	all, err := svc.List(client.ID, pageRequest(1, 10), nil)
	testutil.AssertNoError(t, err)
	if all.TotalItems != 4 {
		t.Errorf("total = %d, want 4", all.TotalItems)
	}
}

func TestQuoteOwnershipScoping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	owner := testutil.CreateTestClient(t, db)
	intruder := testutil.CreateTestClient(t, db)
	quote := testutil.CreateTestQuote(t, db, owner.ID)

	svc := newQuoteService(db)
	_, err := svc.GetByID(intruder.ID, quote.ID)
	testutil.AssertAppError(t, err, "QUOTE_NOT_FOUND")

	_, err = svc.UpdateStatus(intruder.ID, quote.ID, models.QuoteStatusSent)
	testutil.AssertAppError(t, err, "QUOTE_NOT_FOUND")

	err = svc.Delete(intruder.ID, quote.ID)
	testutil.AssertAppError(t, err, "QUOTE_NOT_FOUND")
}
