package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hotwellkz/app66/internal/apperrors"
	"github.com/hotwellkz/app66/internal/core/domain"
	portssvc "github.com/hotwellkz/app66/internal/core/ports/services"
	"github.com/hotwellkz/app66/internal/dto"
	"github.com/hotwellkz/app66/internal/handlers"
	"github.com/hotwellkz/app66/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) Transfer(ctx context.Context, req dto.TransferRequest) (*dto.TransferResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransferResponse), args.Error(1)
}

func (m *MockLedgerService) Reverse(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockLedgerService) ListTransactionsByCategory(ctx context.Context, categoryID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, categoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock CategoryService ---
type MockCategoryService struct {
	mock.Mock
}

var _ portssvc.CategorySvcFacade = (*MockCategoryService)(nil)

func (m *MockCategoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) ListCategories(ctx context.Context, includeHidden bool) ([]domain.Category, error) {
	args := m.Called(ctx, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func setupRouter(ledgerSvc portssvc.LedgerSvcFacade, categorySvc portssvc.CategorySvcFacade) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers.RegisterRoutes(r, &config.Config{}, &portssvc.ServiceContainer{
		Ledger:   ledgerSvc,
		Category: categorySvc,
	})
	return r
}

func TestTransferHandler(t *testing.T) {
	t.Run("returns 201 with the created pair", func(t *testing.T) {
		ledgerSvc := new(MockLedgerService)
		r := setupRouter(ledgerSvc, new(MockCategoryService))

		resp := &dto.TransferResponse{
			RelatedTransactionID: "txn-1",
			Transactions: []dto.TransactionResponse{
				{TransactionID: "txn-1", Type: "expense", Amount: decimal.NewFromInt(-300)},
				{TransactionID: "txn-2", Type: "income", Amount: decimal.NewFromInt(300)},
			},
		}
		ledgerSvc.On("Transfer", mock.Anything, mock.MatchedBy(func(req dto.TransferRequest) bool {
			return req.SourceCategoryID == "cat-a" && req.TargetCategoryID == "cat-b" && req.Description == "rent"
		})).Return(resp, nil).Once()

		body, err := json.Marshal(gin.H{
			"sourceCategoryID": "cat-a",
			"targetCategoryID": "cat-b",
			"amount":           "300",
			"description":      "rent",
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var got dto.TransferResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "txn-1", got.RelatedTransactionID)
		assert.Len(t, got.Transactions, 2)
		ledgerSvc.AssertExpectations(t)
	})

	t.Run("maps invalid amount to 400", func(t *testing.T) {
		ledgerSvc := new(MockLedgerService)
		r := setupRouter(ledgerSvc, new(MockCategoryService))

		ledgerSvc.On("Transfer", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidAmount).Once()

		body, _ := json.Marshal(gin.H{
			"sourceCategoryID": "cat-a",
			"targetCategoryID": "cat-b",
			"amount":           "-5",
			"description":      "bad",
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "greater than zero")
	})

	t.Run("maps conflict to 409 with a generic retry message", func(t *testing.T) {
		ledgerSvc := new(MockLedgerService)
		r := setupRouter(ledgerSvc, new(MockCategoryService))

		ledgerSvc.On("Transfer", mock.Anything, mock.Anything).Return(nil, apperrors.ErrConflict).Once()

		body, _ := json.Marshal(gin.H{
			"sourceCategoryID": "cat-a",
			"targetCategoryID": "cat-b",
			"amount":           "10",
			"description":      "race",
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "retry")
	})

	t.Run("rejects malformed body without calling the service", func(t *testing.T) {
		ledgerSvc := new(MockLedgerService)
		r := setupRouter(ledgerSvc, new(MockCategoryService))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader([]byte(`{"amount":`)))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		ledgerSvc.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
	})
}

func TestReverseTransactionHandler(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		ledgerSvc := new(MockLedgerService)
		r := setupRouter(ledgerSvc, new(MockCategoryService))

		ledgerSvc.On("Reverse", mock.Anything, "txn-1").Return(nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/txn-1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		ledgerSvc.AssertExpectations(t)
	})

	t.Run("maps missing transaction to 404", func(t *testing.T) {
		ledgerSvc := new(MockLedgerService)
		r := setupRouter(ledgerSvc, new(MockCategoryService))

		ledgerSvc.On("Reverse", mock.Anything, "missing").Return(apperrors.ErrNotFound).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/missing", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListCategoriesHandler(t *testing.T) {
	categorySvc := new(MockCategoryService)
	r := setupRouter(new(MockLedgerService), categorySvc)

	categories := []domain.Category{
		{CategoryID: "cat-1", Title: "Wallet", Row: 1, IsVisible: true},
		{CategoryID: "cat-2", Title: "Rent", Row: 2, IsVisible: true},
	}
	categorySvc.On("ListCategories", mock.Anything, false).Return(categories, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []dto.CategoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Wallet", got[0].Title)
	categorySvc.AssertExpectations(t)
}
