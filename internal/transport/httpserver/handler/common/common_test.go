package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/family"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceErrorMapsWrappedSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", chores.ErrChoreNotFound, http.StatusNotFound, "chore_not_found"},
		{"wrapped transition", fmt.Errorf("approve: %w", chores.ErrInvalidTransition), http.StatusConflict, "invalid_transition"},
		{"insufficient savings", ledger.ErrInsufficientSavings, http.StatusConflict, "insufficient_savings"},
		{"blank family name", family.ErrFamilyNameRequired, http.StatusBadRequest, "invalid_request"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, logger.Nop(), "test: failed", tt.err)

			require.Equal(t, tt.status, rec.Code)
			var body errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestBindValidatesWithJSONFieldNames(t *testing.T) {
	type request struct {
		Title string `json:"title" validate:"required,max=5"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":""}`))
	var dst request
	assert.False(t, Bind(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok","extra":1}`))
	assert.False(t, Bind(rec, req, &dst))
	assert.Contains(t, rec.Body.String(), "invalid_json")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok"}`))
	assert.True(t, Bind(rec, req, &dst))
	assert.Equal(t, "ok", dst.Title)
}

func TestSanitizeTextStripsMarkup(t *testing.T) {
	assert.Equal(t, "Bike & helmet", SanitizeText("  <b>Bike</b> & helmet "))
	assert.Equal(t, "Wash dishes", SanitizeText("Wash <script>alert(1)</script>dishes"))
	assert.Nil(t, SanitizeTextPtr(nil))
}

func TestSanitizeTextStripsEntityEncodedMarkup(t *testing.T) {
	assert.Equal(t, "hi", SanitizeText("&lt;script&gt;alert(1)&lt;/script&gt;hi"))
	assert.Equal(t, "hi", SanitizeText("&amp;lt;b&amp;gt;hi&amp;lt;/b&amp;gt;"))
	assert.Equal(t, "", SanitizeText("<b></b>"))
	assert.Equal(t, "1 < 2", SanitizeText("1 < 2"))
	assert.NotContains(t, SanitizeText("&lt;img src=x onerror=alert(1)&gt;"), "<img")
}

func TestPathIDRejectsMalformedIDs(t *testing.T) {
	assert.True(t, ValidID("5d0f9e2a-8b1c-4a7d-b3e6-0c9f1a2b3c01"))
	assert.False(t, ValidID("abc"))
	assert.False(t, ValidID(""))

	rec := httptest.NewRecorder()
	WriteNotFound(rec, chores.ErrChoreNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "chore_not_found")
}
