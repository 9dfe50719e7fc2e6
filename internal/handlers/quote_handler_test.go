package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/pagination"
	"configly/internal/services"
	"configly/internal/validator"
)

// --- mock quote service ---

type mockQuoteService struct {
	createFromEmbedFn func(client *models.Client, publicID string, in services.QuoteInput) (*models.Quote, error)
	createFn          func(clientID uint, in services.QuoteInput) (*models.Quote, error)
	getByCodeFn       func(code string) (*models.Quote, error)
	listFn            func(clientID uint, page pagination.PageRequest, status *models.QuoteStatus) (*pagination.PageResponse[models.Quote], error)
	getByIDFn         func(clientID, quoteID uint) (*models.Quote, error)
	updateContactFn   func(clientID, quoteID uint, name, email, phone, company, message string) (*models.Quote, error)
	updateStatusFn    func(clientID, quoteID uint, status models.QuoteStatus) (*models.Quote, error)
	deleteFn          func(clientID, quoteID uint) error
}

func (m *mockQuoteService) CreateFromEmbed(client *models.Client, publicID string, in services.QuoteInput) (*models.Quote, error) {
	if m.createFromEmbedFn != nil {
		return m.createFromEmbedFn(client, publicID, in)
	}
	return &models.Quote{}, nil
}

func (m *mockQuoteService) Create(clientID uint, in services.QuoteInput) (*models.Quote, error) {
	if m.createFn != nil {
		return m.createFn(clientID, in)
	}
	return &models.Quote{}, nil
}

func (m *mockQuoteService) GetByCode(code string) (*models.Quote, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(code)
	}
	return &models.Quote{}, nil
}

func (m *mockQuoteService) List(clientID uint, page pagination.PageRequest, status *models.QuoteStatus) (*pagination.PageResponse[models.Quote], error) {
	if m.listFn != nil {
		return m.listFn(clientID, page, status)
	}
	resp := pagination.NewPageResponse([]models.Quote{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockQuoteService) GetByID(clientID, quoteID uint) (*models.Quote, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(clientID, quoteID)
	}
	return &models.Quote{}, nil
}

func (m *mockQuoteService) UpdateContact(clientID, quoteID uint, name, email, phone, company, message string) (*models.Quote, error) {
	if m.updateContactFn != nil {
		return m.updateContactFn(clientID, quoteID, name, email, phone, company, message)
	}
	return &models.Quote{}, nil
}

func (m *mockQuoteService) UpdateStatus(clientID, quoteID uint, status models.QuoteStatus) (*models.Quote, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(clientID, quoteID, status)
	}
	return &models.Quote{}, nil
}

func (m *mockQuoteService) Delete(clientID, quoteID uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(clientID, quoteID)
	}
	return nil
}

// verify interface compliance
var _ services.QuoteServicer = (*mockQuoteService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectClientID(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("clientID", id)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	if result["success"] != false {
		t.Fatalf("expected failure envelope, got: %v", result)
	}
	if result["code"] != code {
		t.Errorf("expected error code %q, got %q", code, result["code"])
	}
}

func setupQuoteRouter(handler *QuoteHandler) *gin.Engine {
	r := gin.New()
	r.GET("/quotes/code/:quoteCode", handler.GetByCode)
	auth := r.Group("", injectClientID(1))
	auth.POST("/quotes", handler.Create)
	auth.GET("/quotes", handler.List)
	auth.GET("/quotes/:id", handler.Get)
	auth.PUT("/quotes/:id/status", handler.UpdateStatus)
	auth.DELETE("/quotes/:id", handler.Delete)
	return r
}

// --- tests ---

func TestQuoteHandler_Create(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		quoteSvc := &mockQuoteService{
			createFn: func(clientID uint, in services.QuoteInput) (*models.Quote, error) {
				return &models.Quote{
					Base:          models.Base{ID: 7},
					ClientID:      clientID,
					QuoteCode:     "Q-AB12-CD34",
					CustomerEmail: in.CustomerEmail,
					TotalPrice:    *in.TotalPrice,
					Status:        models.QuoteStatusPending,
				}, nil
			},
		}
		handler := NewQuoteHandler(quoteSvc)
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "POST", "/quotes",
			`{"customer_email":"buyer@example.com","total_price":"49.99"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].(map[string]interface{})
		quote := data["quote"].(map[string]interface{})
		if quote["quote_code"] != "Q-AB12-CD34" {
			t.Errorf("expected quote code, got %v", quote["quote_code"])
		}
		if quote["customer_email"] != "buyer@example.com" {
			t.Errorf("expected customer email, got %v", quote["customer_email"])
		}
	})

	t.Run("returns 400 on missing email", func(t *testing.T) {
		handler := NewQuoteHandler(&mockQuoteService{})
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "POST", "/quotes", `{"total_price":"49.99"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("propagates selection errors", func(t *testing.T) {
		quoteSvc := &mockQuoteService{
			createFn: func(uint, services.QuoteInput) (*models.Quote, error) {
				return nil, apperrors.ErrIncompatibleSelection
			},
		}
		handler := NewQuoteHandler(quoteSvc)
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "POST", "/quotes",
			`{"customer_email":"buyer@example.com","configurator_id":3,"selection":{"1":2}}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INCOMPATIBLE_SELECTION")
	})
}

func TestQuoteHandler_GetByCode(t *testing.T) {
	t.Run("returns the quote without auth", func(t *testing.T) {
		quoteSvc := &mockQuoteService{
			getByCodeFn: func(code string) (*models.Quote, error) {
				return &models.Quote{
					Base:       models.Base{ID: 1},
					QuoteCode:  code,
					TotalPrice: decimal.RequireFromString("100.00"),
					OpenCount:  3,
				}, nil
			},
		}
		handler := NewQuoteHandler(quoteSvc)
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "GET", "/quotes/code/Q-AB12-CD34", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].(map[string]interface{})
		quote := data["quote"].(map[string]interface{})
		if quote["quote_code"] != "Q-AB12-CD34" {
			t.Errorf("expected quote code, got %v", quote["quote_code"])
		}
	})

	t.Run("returns 404 for unknown code", func(t *testing.T) {
		quoteSvc := &mockQuoteService{
			getByCodeFn: func(string) (*models.Quote, error) {
				return nil, apperrors.ErrQuoteNotFound
			},
		}
		handler := NewQuoteHandler(quoteSvc)
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "GET", "/quotes/code/Q-XXXX-XXXX", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "QUOTE_NOT_FOUND")
	})
}

func TestQuoteHandler_List(t *testing.T) {
	t.Run("passes the status filter through", func(t *testing.T) {
		var gotStatus *models.QuoteStatus
		quoteSvc := &mockQuoteService{
			listFn: func(clientID uint, page pagination.PageRequest, status *models.QuoteStatus) (*pagination.PageResponse[models.Quote], error) {
				gotStatus = status
				resp := pagination.NewPageResponse([]models.Quote{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewQuoteHandler(quoteSvc)
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "GET", "/quotes?status=ACCEPTED", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStatus == nil || *gotStatus != models.QuoteStatusAccepted {
			t.Errorf("expected ACCEPTED filter, got %v", gotStatus)
		}
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		handler := NewQuoteHandler(&mockQuoteService{})
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "GET", "/quotes?status=SHIPPED", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestQuoteHandler_UpdateStatus(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		quoteSvc := &mockQuoteService{
			updateStatusFn: func(clientID, quoteID uint, status models.QuoteStatus) (*models.Quote, error) {
				return &models.Quote{Base: models.Base{ID: quoteID}, Status: status}, nil
			},
		}
		handler := NewQuoteHandler(quoteSvc)
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "PUT", "/quotes/5/status", `{"status":"ACCEPTED"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		handler := NewQuoteHandler(&mockQuoteService{})
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "PUT", "/quotes/5/status", `{"status":"SHIPPED"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("surfaces terminal-quote refusal", func(t *testing.T) {
		quoteSvc := &mockQuoteService{
			updateStatusFn: func(uint, uint, models.QuoteStatus) (*models.Quote, error) {
				return nil, apperrors.ErrQuoteTerminal
			},
		}
		handler := NewQuoteHandler(quoteSvc)
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "PUT", "/quotes/5/status", `{"status":"REJECTED"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "QUOTE_TERMINAL")
	})

	t.Run("rejects an invalid path ID", func(t *testing.T) {
		handler := NewQuoteHandler(&mockQuoteService{})
		r := setupQuoteRouter(handler)

		rec := doRequest(r, "PUT", "/quotes/abc/status", `{"status":"ACCEPTED"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
