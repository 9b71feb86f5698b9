package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/qrsite/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockHandler implements RouteHandler for testing
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Index(w http.ResponseWriter, r *http.Request) {
	m.Called(w, r)
	w.WriteHeader(http.StatusOK)
}

func (m *MockHandler) Info(w http.ResponseWriter, r *http.Request) {
	m.Called(w, r)
	w.WriteHeader(http.StatusOK)
}

func (m *MockHandler) QRImage(w http.ResponseWriter, r *http.Request) {
	m.Called(w, r)
	w.WriteHeader(http.StatusOK)
}

func (m *MockHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	m.Called(w, r)
	w.WriteHeader(http.StatusOK)
}

func (m *MockHandler) AdminPost(w http.ResponseWriter, r *http.Request) {
	m.Called(w, r)
	w.WriteHeader(http.StatusFound)
}

func TestNewRouter(t *testing.T) {
	mockHandler := new(MockHandler)

	router := NewRouter(mockHandler)

	assert.NotNil(t, router)
	assert.Equal(t, mockHandler, router.handler)
	assert.IsType(t, &chi.Mux{}, router.router)
}

func TestRouter_SetupRoutes(t *testing.T) {
	mockHandler := new(MockHandler)
	router := NewRouter(mockHandler)
	router.SetupRoutes()

	tests := []struct {
		method     string
		path       string
		handler    string
		wantStatus int
	}{
		{http.MethodGet, "/", "Index", http.StatusOK},
		{http.MethodGet, "/info", "Info", http.StatusOK},
		{http.MethodGet, "/qr.png", "QRImage", http.StatusOK},
		{http.MethodGet, "/admin?token=x", "AdminGet", http.StatusOK},
		{http.MethodPost, "/admin?token=x", "AdminPost", http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			mockHandler.On(tt.handler, mock.Anything, mock.Anything).Once()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(constant.HeaderRequestID))
		})
	}
	mockHandler.AssertExpectations(t)
}

func TestRouter_Healthcheck(t *testing.T) {
	router := NewRouter(new(MockHandler))
	router.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, constant.RouteHealthcheck, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constant.MsgHealthy, w.Body.String())
}

func TestRouter_UnknownRoute(t *testing.T) {
	mockHandler := new(MockHandler)
	router := NewRouter(mockHandler)
	router.SetupRoutes()

	req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	mockHandler.AssertNotCalled(t, "AdminGet", mock.Anything, mock.Anything)
}
