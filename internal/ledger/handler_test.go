package ledger

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetBalance(ctx context.Context, userID int) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockService) TopUp(ctx context.Context, userID int, amount decimal.Decimal) (*Account, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func setupRouter(svc Service, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID > 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})

	h := NewHandler(svc)
	router.GET("/reservations/my-balance", h.GetBalance)
	router.POST("/admin/users/:userID/top-up", h.TopUp)
	return router
}

func TestHandler_GetBalance(t *testing.T) {
	svc := new(MockService)
	svc.On("GetBalance", mock.Anything, 3).Return(dec("60.00"), nil)

	w := httptest.NewRecorder()
	setupRouter(svc, 3).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reservations/my-balance", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":"60.00"}`, w.Body.String())
}

func TestHandler_GetBalanceUnauthenticated(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter(new(MockService), 0).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reservations/my-balance", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_TopUp(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
	}{
		{
			name: "success",
			path: "/admin/users/5/top-up",
			body: `{"amount":"100.00"}`,
			setupMock: func(m *MockService) {
				m.On("TopUp", mock.Anything, 5, mock.Anything).Return(&Account{ID: 5, Balance: dec("100")}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad user id",
			path:       "/admin/users/abc/top-up",
			body:       `{"amount":"1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			path:       "/admin/users/5/top-up",
			body:       `{"amount":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid amount",
			path: "/admin/users/5/top-up",
			body: `{"amount":"-1"}`,
			setupMock: func(m *MockService) {
				m.On("TopUp", mock.Anything, 5, mock.Anything).Return(nil, ErrInvalidAmount)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown user",
			path: "/admin/users/5/top-up",
			body: `{"amount":"1"}`,
			setupMock: func(m *MockService) {
				m.On("TopUp", mock.Anything, 5, mock.Anything).Return(nil, ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			setupRouter(svc, 1).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrInsufficientFunds, http.StatusBadRequest},
		{ErrInvalidAmount, http.StatusBadRequest},
		{ErrSelfTransfer, http.StatusBadRequest},
		{ErrForbidden, http.StatusForbidden},
		{ErrConflict, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(errors.Join(errors.New("context"), tt.err)))
		})
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}
