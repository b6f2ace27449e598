package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/aggregator/classifier"
	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/pkg/logger"
)

func newHandlerLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func postClassify(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	log := newHandlerLogger(t)
	handler := NewClassifyHandler(classifier.NewKeywordClassifier(log), log)

	e := echo.New()
	handler.RegisterRoutes(e.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestClassifyEndpoint(t *testing.T) {
	rec := postClassify(t, `{"text":"Heavy traffic jam in Colombo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "traffic", resp.Classification.Category)
	assert.Equal(t, "traffic_jams", resp.Classification.Subcategory)
	assert.Equal(t, "Colombo", resp.Classification.Location)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestClassifyEndpointRejectsEmptyText(t *testing.T) {
	rec := postClassify(t, `{"text":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No text provided", resp.Error)
}

func TestClassifyEndpointRejectsBadJSON(t *testing.T) {
	rec := postClassify(t, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
