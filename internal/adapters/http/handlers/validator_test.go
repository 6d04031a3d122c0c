package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amountBody struct {
	Amount string `json:"amount" binding:"required,money_amount"`
	Nonce  string `json:"nonce" binding:"required,tx_nonce"`
}

func bindTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	router := gin.New()
	router.POST("/check", func(c *gin.Context) {
		var req amountBody
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postBody(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/check", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMoneyAmountValidator(t *testing.T) {
	router := bindTestRouter()

	tests := []struct {
		name     string
		amount   string
		wantCode int
	}{
		{"single digit", "1", http.StatusOK},
		{"zero passes the pattern", "0", http.StatusOK},
		{"twenty digits", "12345678901234567890", http.StatusOK},
		{"twenty one digits", "123456789012345678901", http.StatusUnprocessableEntity},
		{"negative", "-1", http.StatusUnprocessableEntity},
		{"decimal", "1.50", http.StatusUnprocessableEntity},
		{"letters", "ten", http.StatusUnprocessableEntity},
		{"empty", "", http.StatusUnprocessableEntity},
		{"spaces", " 10", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postBody(t, router, `{"amount":"`+tt.amount+`","nonce":"abcdef01"}`)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestTxNonceValidator(t *testing.T) {
	router := bindTestRouter()

	tests := []struct {
		name     string
		nonce    string
		wantCode int
	}{
		{"eight chars", "abcdef01", http.StatusOK},
		{"sixteen chars", "abcdef0123456789", http.StatusOK},
		{"seven chars", "abcdef0", http.StatusUnprocessableEntity},
		{"seventeen chars", "abcdef0123456789x", http.StatusUnprocessableEntity},
		{"empty", "", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postBody(t, router, `{"amount":"10","nonce":"`+tt.nonce+`"}`)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestBindJSON_FieldNamesUseJSONTags(t *testing.T) {
	router := bindTestRouter()

	w := postBody(t, router, `{"amount":"bad","nonce":"abcdef01"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "amount")
}

func TestBindJSON_MalformedBody(t *testing.T) {
	router := bindTestRouter()

	w := postBody(t, router, `{"amount":`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}
