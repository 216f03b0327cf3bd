// Package validation checks data crossing the storage boundary. Field rules
// return a Result listing every problem found; type guards over decoded JSON
// answer yes or no; composite validators stop at the first failure.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/juju/errors"
)

// Bounds for the field rules.
const (
	MaxPrice           = 100000
	MinYear            = 2020
	MaxYear            = 2030
	MaxCustomerNameLen = 100
)

// Result is the outcome of a field rule.
type Result struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

func result(errs []string) Result {
	return Result{Success: len(errs) == 0, Errors: errs}
}

// Err folds a failed result into a single NotValid error.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return errors.NewNotValid(nil, strings.Join(r.Errors, "; "))
}

// numeric converts the numeric forms produced by Go code and encoding/json.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ValidatePrice checks an amount in cents: a finite whole number between 0
// and MaxPrice.
func ValidatePrice(v any) Result {
	price, ok := numeric(v)
	if !ok {
		return result([]string{"Price must be a number"})
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return result([]string{"Price must be a finite number"})
	}
	var errs []string
	if price != math.Trunc(price) {
		errs = append(errs, "Price must be a whole number of cents")
	}
	if price < 0 {
		errs = append(errs, "Price cannot be negative")
	}
	if price > MaxPrice {
		errs = append(errs, fmt.Sprintf("Price cannot exceed %d cents ($%d.00)", MaxPrice, MaxPrice/100))
	}
	return result(errs)
}

// ValidateDate checks a timestamp is set and falls within the years
// MinYear..MaxYear. Strings are parsed as RFC 3339.
func ValidateDate(v any) Result {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return result([]string{"Date is required"})
		}
		t = *d
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, d)
		if err != nil {
			return result([]string{"Date is not a valid date"})
		}
		t = parsed
	default:
		return result([]string{"Date must be a date"})
	}
	if t.IsZero() {
		return result([]string{"Date is not a valid date"})
	}
	var errs []string
	if t.Year() < MinYear {
		errs = append(errs, fmt.Sprintf("Date cannot be before %d", MinYear))
	}
	if t.Year() > MaxYear {
		errs = append(errs, fmt.Sprintf("Date cannot be after %d", MaxYear))
	}
	return result(errs)
}

var nonDigits = regexp.MustCompile(`\D`)

// SanitizePhone strips everything but digits.
func SanitizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidateCustomerInfo checks the checkout details. The name is required and
// 1..MaxCustomerNameLen characters once trimmed; the phone is optional but
// must contain at least one digit when given.
func ValidateCustomerInfo(name, phone string) Result {
	var errs []string
	trimmed := strings.TrimSpace(name)
	switch n := len([]rune(trimmed)); {
	case n == 0:
		errs = append(errs, "Customer name is required")
	case n > MaxCustomerNameLen:
		errs = append(errs, fmt.Sprintf("Customer name must be %d characters or fewer", MaxCustomerNameLen))
	}
	if phone != "" && SanitizePhone(phone) == "" {
		errs = append(errs, "Phone number must contain at least one digit")
	}
	return result(errs)
}
