package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vehicletax/internal/handler"
	"vehicletax/internal/ledger"
	"vehicletax/internal/service"
	"vehicletax/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	gin.SetMode(gin.TestMode)

	svc := service.NewTaxRecordService(ledger.NewMemoryStore(), nil, nil)
	router := gin.New()
	handler.NewTaxRecordHandler(svc).RegisterRoutes(router.Group(""))
	return router
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, router *gin.Engine, method, path, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, role))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func generateBody() gin.H {
	return gin.H{
		"plate":            "ABC123",
		"owner_doc_type":   "CC",
		"owner_doc_number": "1001",
		"year_payable":     "2024",
		"taxable_base":     "1000000",
		"vehicle_category": "PARTICULAR",
		"assessed_value":   "40000000",
	}
}

func TestAuthRequired(t *testing.T) {
	router := newRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/tax-records", "", generateBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// staff may pay but not validate
	w = doJSON(t, router, http.MethodPost, "/api/tax-records/validate", "staff",
		gin.H{"plate": "ABC123", "year_payable": "2024"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLifecycleOverHTTP(t *testing.T) {
	router := newRouter(t)

	// generate
	w := doJSON(t, router, http.MethodPost, "/api/tax-records", "staff", generateBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "GENERATED", data["state"])
	assert.Equal(t, "15000", data["value_due"])

	// duplicate generate conflicts
	w = doJSON(t, router, http.MethodPost, "/api/tax-records", "staff", generateBody())
	assert.Equal(t, http.StatusConflict, w.Code)

	// pay
	w = doJSON(t, router, http.MethodPost, "/api/tax-records/pay", "staff",
		gin.H{"plate": "ABC123", "year_payable": "2024", "bank": "BankX"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decodeResponse(t, w)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "PAID", data["state"])
	assert.Equal(t, "BankX", data["bank"])
	assert.NotEmpty(t, data["payment_date"])

	// repeated pay conflicts and names the state
	w = doJSON(t, router, http.MethodPost, "/api/tax-records/pay", "staff",
		gin.H{"plate": "ABC123", "year_payable": "2024", "bank": "BankY"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeResponse(t, w).Error, "current state PAID is inconsistent")

	// validate
	w = doJSON(t, router, http.MethodPost, "/api/tax-records/validate", "admin",
		gin.H{"plate": "ABC123", "year_payable": "2024"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decodeResponse(t, w)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "VALIDATED", data["state"])

	// repeated validate conflicts
	w = doJSON(t, router, http.MethodPost, "/api/tax-records/validate", "admin",
		gin.H{"plate": "ABC123", "year_payable": "2024"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// fetch
	w = doJSON(t, router, http.MethodGet, "/api/tax-records/ABC123/2024", "auditor", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "VALIDATED", data["state"])
}

func TestErrorStatuses(t *testing.T) {
	router := newRouter(t)

	t.Run("missing record is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/tax-records/pay", "staff",
			gin.H{"plate": "ZZZ999", "year_payable": "2024", "bank": "BankX"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown category is 400", func(t *testing.T) {
		body := generateBody()
		body["vehicle_category"] = "SPACESHIP"
		w := doJSON(t, router, http.MethodPost, "/api/tax-records", "staff", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed numeric input is 400", func(t *testing.T) {
		body := generateBody()
		body["taxable_base"] = "a lot"
		w := doJSON(t, router, http.MethodPost, "/api/tax-records", "staff", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing payload field is 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/tax-records/pay", "staff",
			gin.H{"plate": "ABC123", "year_payable": "2024"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad year path param is 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/tax-records/ABC123/banana", "admin", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
