package validation

import (
	"math"

	"brewcart/internal/models"
)

// IsDrinkCategory reports whether v is a known drink category.
func IsDrinkCategory(v any) bool {
	s, ok := asString(v)
	if !ok {
		return false
	}
	for _, c := range models.DrinkCategories {
		if models.DrinkCategory(s) == c {
			return true
		}
	}
	return false
}

// IsOptionType reports whether v is a known option type.
func IsOptionType(v any) bool {
	s, ok := asString(v)
	if !ok {
		return false
	}
	for _, t := range models.OptionTypes {
		if models.OptionType(s) == t {
			return true
		}
	}
	return false
}

// IsOrderStatus reports whether v is a known order status.
func IsOrderStatus(v any) bool {
	s, ok := asString(v)
	if !ok {
		return false
	}
	for _, status := range models.OrderStatuses {
		if models.OrderStatus(s) == status {
			return true
		}
	}
	return false
}

// IsSyrupStatus reports whether v is a known syrup status.
func IsSyrupStatus(v any) bool {
	s, ok := asString(v)
	return ok && (models.SyrupStatus(s) == models.SyrupAvailable || models.SyrupStatus(s) == models.SyrupSoldOut)
}

// IsDrinkOption reports whether v is a decoded DrinkOption.
func IsDrinkOption(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return hasString(m, "id", true) &&
		hasString(m, "name", true) &&
		ValidatePrice(m["additionalCost"]).Success &&
		IsOptionType(m["type"]) &&
		hasBool(m, "isAvailable")
}

// IsDrink reports whether v is a decoded Drink.
func IsDrink(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if !hasString(m, "id", true) || !hasString(m, "name", true) ||
		!IsDrinkCategory(m["category"]) ||
		!ValidatePrice(m["basePrice"]).Success ||
		!hasBool(m, "isAvailable") {
		return false
	}
	options, ok := m["options"].([]any)
	if !ok {
		return false
	}
	for _, opt := range options {
		if !IsDrinkOption(opt) {
			return false
		}
	}
	return true
}

// isOptionSnapshot accepts the minimal {id, name} shape every option
// snapshot carries, including those written by older builds.
func isOptionSnapshot(v any) bool {
	m, ok := v.(map[string]any)
	return ok && hasString(m, "id", true) && hasString(m, "name", false)
}

// IsOrderItem reports whether v is a decoded OrderItem.
func IsOrderItem(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if !hasString(m, "id", true) || !hasString(m, "drinkId", true) || !hasString(m, "drinkName", true) {
		return false
	}
	if q, ok := integer(m["quantity"]); !ok || q < 1 {
		return false
	}
	if !ValidatePrice(m["totalPrice"]).Success {
		return false
	}
	options, ok := m["selectedOptions"].([]any)
	if !ok {
		return false
	}
	for _, opt := range options {
		if !isOptionSnapshot(opt) {
			return false
		}
	}
	return true
}

// IsOrder reports whether v is a decoded Order.
func IsOrder(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if !hasString(m, "id", true) || !IsOrderStatus(m["status"]) {
		return false
	}
	name, _ := asString(m["customerName"])
	phone, _ := asString(m["customerPhone"])
	if phoneValue, present := m["customerPhone"]; present && phoneValue != nil {
		if _, ok := asString(phoneValue); !ok {
			return false
		}
	}
	if !ValidateCustomerInfo(name, phone).Success {
		return false
	}
	if !ValidatePrice(m["totalAmount"]).Success {
		return false
	}
	if !ValidateDate(m["createdAt"]).Success || !ValidateDate(m["updatedAt"]).Success {
		return false
	}
	items, ok := m["items"].([]any)
	if !ok || len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !IsOrderItem(item) {
			return false
		}
	}
	return true
}

// IsSyrup reports whether v is a decoded Syrup.
func IsSyrup(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return hasString(m, "id", true) &&
		hasString(m, "name", true) &&
		IsSyrupStatus(m["status"]) &&
		ValidateDate(m["createdAt"]).Success &&
		ValidateDate(m["updatedAt"]).Success
}

// IsAppSettings reports whether v is a decoded AppSettings blob at any
// schema version.
func IsAppSettings(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := m["userPreferences"].(map[string]any); !ok {
		return false
	}
	if _, ok := m["cartConfig"].(map[string]any); !ok {
		return false
	}
	if !hasString(m, "version", false) {
		return false
	}
	if raw, present := m["schemaVersion"]; present && raw != nil {
		if n, ok := integer(raw); !ok || n < 1 {
			return false
		}
	}
	if raw, present := m["migrationHistory"]; present && raw != nil {
		history, ok := raw.([]any)
		if !ok {
			return false
		}
		for _, rec := range history {
			r, ok := rec.(map[string]any)
			if !ok || !hasBool(r, "success") {
				return false
			}
			if _, ok := integer(r["fromVersion"]); !ok {
				return false
			}
			if _, ok := integer(r["toVersion"]); !ok {
				return false
			}
		}
	}
	return true
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case models.DrinkCategory:
		return string(s), true
	case models.OptionType:
		return string(s), true
	case models.OrderStatus:
		return string(s), true
	case models.SyrupStatus:
		return string(s), true
	}
	return "", false
}

func hasString(m map[string]any, key string, nonEmpty bool) bool {
	s, ok := m[key].(string)
	return ok && (!nonEmpty || s != "")
}

func hasBool(m map[string]any, key string) bool {
	_, ok := m[key].(bool)
	return ok
}

func integer(v any) (int64, bool) {
	n, ok := numeric(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, false
	}
	return int64(n), true
}
