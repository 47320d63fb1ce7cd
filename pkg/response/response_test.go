package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusInternalServerError, "boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
}

func TestValidationErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"price": "The price must be greater than 0."})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Validation failed","details":{"price":"The price must be greater than 0."}}`, rec.Body.String())
}

func TestSuccessAndCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]int{"total": 0})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":0}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Created(rec, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	NotFound(rec, "Product not found")
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())
}
