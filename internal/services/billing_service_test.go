package services

import (
	"fmt"
	"testing"

	"configly/internal/models"
	"configly/internal/payments"
	"configly/internal/testutil"
)

// fakeProvider is a Provider that returns canned sessions and
// verifications.
type fakeProvider struct {
	createFn func(clientID uint) (*payments.CheckoutSession, error)
	verifyFn func(sessionID string) (*payments.Verification, error)
}

func (f *fakeProvider) CreateBlockCheckout(clientID uint) (*payments.CheckoutSession, error) {
	if f.createFn != nil {
		return f.createFn(clientID)
	}
	return &payments.CheckoutSession{ID: "cs_test", URL: "https://pay.test/cs_test"}, nil
}

func (f *fakeProvider) VerifyCheckout(sessionID string) (*payments.Verification, error) {
	if f.verifyFn != nil {
		return f.verifyFn(sessionID)
	}
	return &payments.Verification{SessionID: sessionID, Paid: true}, nil
}

func TestPrimaryOptionLimit(t *testing.T) {
	tests := []struct {
		blocks int
		want   int
	}{
		{0, 10},
		{1, 20},
		{3, 40},
	}
	for _, tt := range tests {
		if got := PrimaryOptionLimit(tt.blocks); got != tt.want {
			t.Errorf("PrimaryOptionLimit(%d) = %d, want %d", tt.blocks, got, tt.want)
		}
	}
}

func TestUsageCountsOnlyPrimaryOptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	cfg := testutil.CreateTestConfigurator(t, db, client.ID)
	primary := testutil.CreateTestPrimaryCategory(t, db, cfg.ID)
	secondary := testutil.CreateTestCategory(t, db, cfg.ID)

	for i := 0; i < 4; i++ {
		testutil.CreateTestOption(t, db, primary.ID, "10.00")
	}
	for i := 0; i < 7; i++ {
		testutil.CreateTestOption(t, db, secondary.ID, "5.00")
	}

	svc := NewBillingService(db, &fakeProvider{})
	usage, err := svc.Usage(client.ID)
	testutil.AssertNoError(t, err)

	if usage.Used != 4 {
		t.Errorf("used = %d, want 4", usage.Used)
	}
	if usage.Included != 10 {
		t.Errorf("included = %d, want 10", usage.Included)
	}
	if usage.Remaining != 6 {
		t.Errorf("remaining = %d, want 6", usage.Remaining)
	}
	if usage.LimitReached {
		t.Error("limit should not be reached at 4/10")
	}
}

func TestUsageAcrossConfigurators(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	for i := 0; i < 2; i++ {
		cfg := testutil.CreateTestConfigurator(t, db, client.ID)
		cat := testutil.CreateTestPrimaryCategory(t, db, cfg.ID)
		for j := 0; j < 5; j++ {
			testutil.CreateTestOption(t, db, cat.ID, "1.00")
		}
	}

	svc := NewBillingService(db, &fakeProvider{})
	usage, err := svc.Usage(client.ID)
	testutil.AssertNoError(t, err)

	if usage.Used != 10 {
		t.Errorf("used = %d, want 10", usage.Used)
	}
	if !usage.LimitReached {
		t.Error("limit should be reached at 10/10")
	}
}

func TestVerifyBlockPurchaseCreditsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	provider := &fakeProvider{
		verifyFn: func(sessionID string) (*payments.Verification, error) {
			return &payments.Verification{SessionID: sessionID, ClientID: client.ID, Paid: true}, nil
		},
	}
	svc := NewBillingService(db, provider)

	updated, err := svc.VerifyBlockPurchase(client.ID, "cs_abc")
	testutil.AssertNoError(t, err)
	if updated.ChargedBlocks != 1 {
		t.Fatalf("charged blocks = %d, want 1", updated.ChargedBlocks)
	}

	// Replaying the same session must not credit again.
	replayed, err := svc.VerifyBlockPurchase(client.ID, "cs_abc")
	testutil.AssertNoError(t, err)
	if replayed.ChargedBlocks != 1 {
		t.Errorf("charged blocks after replay = %d, want 1", replayed.ChargedBlocks)
	}

	// A new session credits a second block.
	second, err := svc.VerifyBlockPurchase(client.ID, "cs_def")
	testutil.AssertNoError(t, err)
	if second.ChargedBlocks != 2 {
		t.Errorf("charged blocks after second session = %d, want 2", second.ChargedBlocks)
	}
}

func TestVerifyBlockPurchaseRejectsUnpaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	provider := &fakeProvider{
		verifyFn: func(sessionID string) (*payments.Verification, error) {
			return &payments.Verification{SessionID: sessionID, ClientID: client.ID, Paid: false}, nil
		},
	}
	svc := NewBillingService(db, provider)

	_, err := svc.VerifyBlockPurchase(client.ID, "cs_pending")
	testutil.AssertAppError(t, err, "PAYMENT_NOT_COMPLETED")

	var count int64
	db.Model(&models.ProcessedPaymentSession{}).Count(&count)
	if count != 0 {
		t.Errorf("unpaid session must not be recorded, found %d", count)
	}
}

func TestVerifyBlockPurchaseRejectsForeignSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	other := testutil.CreateTestClient(t, db)

	provider := &fakeProvider{
		verifyFn: func(sessionID string) (*payments.Verification, error) {
			return &payments.Verification{SessionID: sessionID, ClientID: other.ID, Paid: true}, nil
		},
	}
	svc := NewBillingService(db, provider)

	_, err := svc.VerifyBlockPurchase(client.ID, "cs_foreign")
	testutil.AssertAppError(t, err, "FORBIDDEN")
}

func TestStartBlockCheckout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	client := testutil.CreateTestClient(t, db)
	provider := &fakeProvider{
		createFn: func(clientID uint) (*payments.CheckoutSession, error) {
			return &payments.CheckoutSession{
				ID:  fmt.Sprintf("cs_%d", clientID),
				URL: "https://pay.test/session",
			}, nil
		},
	}
	svc := NewBillingService(db, provider)

	session, err := svc.StartBlockCheckout(client.ID)
	testutil.AssertNoError(t, err)
	if session.ID != fmt.Sprintf("cs_%d", client.ID) {
		t.Errorf("session id = %q", session.ID)
	}

	_, err = svc.StartBlockCheckout(99999)
	testutil.AssertAppError(t, err, "CLIENT_NOT_FOUND")
}
