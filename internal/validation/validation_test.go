package validation

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewcart/internal/models"
)

func TestValidatePriceBoundaries(t *testing.T) {
	assert.True(t, ValidatePrice(0).Success)
	assert.True(t, ValidatePrice(100000).Success)
	assert.True(t, ValidatePrice(int64(450)).Success)
	assert.True(t, ValidatePrice(float64(450)).Success)
	assert.True(t, ValidatePrice(json.Number("450")).Success)

	assert.False(t, ValidatePrice(100001).Success)
	assert.False(t, ValidatePrice(-1).Success)

	res := ValidatePrice(49.5)
	require.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "whole number")
}

func TestValidatePriceMessages(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"4.50", "must be a number"},
		{nil, "must be a number"},
		{math.NaN(), "finite"},
		{math.Inf(1), "finite"},
		{-1, "negative"},
		{100001, "exceed"},
	}
	for _, tc := range tests {
		res := ValidatePrice(tc.value)
		if assert.False(t, res.Success, "value %v", tc.value) {
			assert.Contains(t, strings.Join(res.Errors, "|"), tc.want, "value %v", tc.value)
		}
	}

	// a negative fraction reports both problems
	res := ValidatePrice(-0.5)
	assert.Len(t, res.Errors, 2)
}

func TestValidateDate(t *testing.T) {
	assert.True(t, ValidateDate(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)).Success)
	assert.True(t, ValidateDate("2024-02-29T10:00:00Z").Success)
	assert.True(t, ValidateDate(time.Date(2030, 12, 31, 23, 59, 0, 0, time.UTC)).Success)

	assert.False(t, ValidateDate(time.Time{}).Success)
	assert.False(t, ValidateDate("not a date").Success)
	assert.False(t, ValidateDate(12345).Success)
	assert.False(t, ValidateDate((*time.Time)(nil)).Success)

	res := ValidateDate(time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC))
	require.False(t, res.Success)
	assert.Contains(t, res.Errors[0], "before 2020")

	res = ValidateDate(time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC))
	require.False(t, res.Success)
	assert.Contains(t, res.Errors[0], "after 2030")
}

func TestValidateCustomerInfo(t *testing.T) {
	assert.True(t, ValidateCustomerInfo("Sam", "").Success)
	assert.True(t, ValidateCustomerInfo("  Sam  ", "(555) 010-9999").Success)
	assert.True(t, ValidateCustomerInfo(strings.Repeat("a", 100), "").Success)

	res := ValidateCustomerInfo("   ", "call me")
	require.False(t, res.Success)
	assert.Len(t, res.Errors, 2)

	res = ValidateCustomerInfo(strings.Repeat("a", 101), "")
	require.False(t, res.Success)
	assert.Contains(t, res.Errors[0], "100 characters")

	assert.Equal(t, "5550109999", SanitizePhone("(555) 010-9999"))
}

func TestEnumGuardsFailClosed(t *testing.T) {
	assert.True(t, IsDrinkCategory("chai-latte"))
	assert.True(t, IsDrinkCategory(models.CategoryItalianSoda))
	assert.False(t, IsDrinkCategory("tea"))
	assert.False(t, IsDrinkCategory(nil))

	assert.True(t, IsOptionType("milk"))
	assert.False(t, IsOptionType("topping"))

	assert.True(t, IsOrderStatus("in-progress"))
	assert.False(t, IsOrderStatus("in_progress"))
	assert.False(t, IsOrderStatus(3))

	assert.True(t, IsSyrupStatus("soldOut"))
	assert.False(t, IsSyrupStatus("sold_out"))
}

func decode(t *testing.T, v any) any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func validOrder() models.Order {
	created := time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)
	return models.Order{
		ID:           "order-1",
		CustomerName: "Alex",
		Items: []models.OrderItem{{
			ID:              "item-1",
			DrinkID:         "mocha",
			DrinkName:       "Mocha",
			Quantity:        1,
			SelectedOptions: []models.DrinkOption{{ID: "milk-oat", Name: "Oat Milk", Type: models.OptionTypeMilk}},
			TotalPrice:      525,
		}},
		TotalAmount: 525,
		Status:      models.OrderStatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestOrderGuardAndValidator(t *testing.T) {
	order := validOrder()
	assert.True(t, IsOrder(decode(t, order)))
	assert.NoError(t, ValidateOrder(order))

	empty := validOrder()
	empty.Items = nil
	assert.False(t, IsOrder(decode(t, empty)))
	assert.True(t, errors.Is(ValidateOrder(empty), errors.NotValid))

	zeroQty := validOrder()
	zeroQty.Items[0].Quantity = 0
	assert.False(t, IsOrder(decode(t, zeroQty)))
	assert.Error(t, ValidateOrder(zeroQty))

	badStatus := validOrder()
	badStatus.Status = "lost"
	assert.False(t, IsOrder(decode(t, badStatus)))
	assert.Error(t, ValidateOrder(badStatus))

	oldClock := validOrder()
	oldClock.CreatedAt = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, IsOrder(decode(t, oldClock)))
	assert.Error(t, ValidateOrder(oldClock))

	assert.False(t, IsOrder("order-1"))
	assert.False(t, IsOrder(nil))
}

func TestOrderItemAcceptsLegacySnapshots(t *testing.T) {
	raw := map[string]any{
		"id":              "item-1",
		"drinkId":         "chai",
		"drinkName":       "Chai Latte",
		"quantity":        float64(2),
		"totalPrice":      float64(900),
		"selectedOptions": []any{map[string]any{"id": "dirty", "name": "Dirty"}},
	}
	assert.True(t, IsOrderItem(raw))

	raw["quantity"] = 1.5
	assert.False(t, IsOrderItem(raw))
}

func TestValidateOrderStopsAtFirstFailure(t *testing.T) {
	order := validOrder()
	order.Items = append(order.Items, models.OrderItem{ID: "item-2", DrinkID: "latte", DrinkName: "Latte", Quantity: 0})
	order.Items = append(order.Items, models.OrderItem{ID: "item-3"})

	err := ValidateOrder(order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item-2")
	assert.NotContains(t, err.Error(), "item-3")
}

func TestDrinkGuardAndValidator(t *testing.T) {
	drink := models.Drink{
		ID:        "latte",
		Name:      "Latte",
		Category:  models.CategoryLatte,
		BasePrice: 400,
		Options: []models.DrinkOption{
			{ID: "milk-oat", Name: "Oat Milk", AdditionalCost: 75, Type: models.OptionTypeMilk, IsAvailable: true},
		},
		IsAvailable: true,
	}
	assert.True(t, IsDrink(decode(t, drink)))
	assert.NoError(t, ValidateDrink(drink))

	drink.Options[0].AdditionalCost = -5
	assert.False(t, IsDrink(decode(t, drink)))
	assert.Error(t, ValidateDrink(drink))

	drink.Options[0].AdditionalCost = 75
	drink.Category = "smoothie"
	assert.False(t, IsDrink(decode(t, drink)))
	assert.Error(t, ValidateDrink(drink))
}

func TestSyrupGuard(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	syrup := models.Syrup{ID: "s1", Name: "Vanilla", Status: models.SyrupAvailable, CreatedAt: now, UpdatedAt: now}
	assert.True(t, IsSyrup(decode(t, syrup)))
	assert.NoError(t, ValidateSyrup(syrup))

	syrup.Status = "gone"
	assert.False(t, IsSyrup(decode(t, syrup)))
	assert.Error(t, ValidateSyrup(syrup))
}

func TestAppSettingsGuard(t *testing.T) {
	assert.True(t, IsAppSettings(decode(t, models.DefaultSettings())))

	legacy := map[string]any{
		"userPreferences": map[string]any{"theme": "dark"},
		"cartConfig":      map[string]any{},
		"version":         "1.0",
	}
	assert.True(t, IsAppSettings(legacy))

	legacy["schemaVersion"] = float64(0)
	assert.False(t, IsAppSettings(legacy))

	legacy["schemaVersion"] = float64(2)
	legacy["migrationHistory"] = []any{map[string]any{"fromVersion": float64(1), "toVersion": float64(2)}}
	assert.False(t, IsAppSettings(legacy))
}

func TestValidateAppVersion(t *testing.T) {
	assert.NoError(t, ValidateAppVersion("1.0.0"))
	assert.NoError(t, ValidateAppVersion("2.3.1-beta.1"))
	assert.Error(t, ValidateAppVersion("1.0"))
	assert.Error(t, ValidateAppVersion(""))
}
