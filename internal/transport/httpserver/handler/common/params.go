package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidID reports whether id is a well-formed uuid. Anything else can never
// match a row.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// PathID returns the named uuid path parameter. A malformed value is
// answered with the not-found response of notFound.
func PathID(w http.ResponseWriter, r *http.Request, name string, notFound error) (string, bool) {
	id := chi.URLParam(r, name)
	if !ValidID(id) {
		WriteNotFound(w, notFound)
		return "", false
	}
	return id, true
}

// WriteNotFound answers with the status and code registered for err.
func WriteNotFound(w http.ResponseWriter, err error) {
	for _, known := range businessErrors {
		if errors.Is(err, known.target) {
			WriteError(w, known.status, known.code, known.target.Error())
			return
		}
	}
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

func ParseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func ParseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return parsed, nil
}

// Money renders an amount with two decimals, the way every balance is
// exposed over the API.
func Money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func MoneyPtr(amount decimal.NullDecimal) *string {
	if !amount.Valid {
		return nil
	}
	value := Money(amount.Decimal)
	return &value
}
