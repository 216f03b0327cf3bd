package validation

import (
	"github.com/Masterminds/semver/v3"
	"github.com/juju/errors"

	"brewcart/internal/models"
)

// ValidateDrinkOption checks a menu option.
func ValidateDrinkOption(opt models.DrinkOption) error {
	if opt.ID == "" {
		return errors.NotValidf("option without id")
	}
	if opt.Name == "" {
		return errors.NotValidf("option %q without name", opt.ID)
	}
	if !IsOptionType(opt.Type) {
		return errors.NotValidf("option %q type %q", opt.ID, opt.Type)
	}
	if err := ValidatePrice(opt.AdditionalCost).Err(); err != nil {
		return errors.Annotatef(err, "option %q", opt.ID)
	}
	return nil
}

// ValidateDrink checks a drink and each of its options, stopping at the
// first problem.
func ValidateDrink(d models.Drink) error {
	if d.ID == "" {
		return errors.NotValidf("drink without id")
	}
	if d.Name == "" {
		return errors.NotValidf("drink %q without name", d.ID)
	}
	if !IsDrinkCategory(d.Category) {
		return errors.NotValidf("drink %q category %q", d.ID, d.Category)
	}
	if err := ValidatePrice(d.BasePrice).Err(); err != nil {
		return errors.Annotatef(err, "drink %q", d.ID)
	}
	for _, opt := range d.Options {
		if err := ValidateDrinkOption(opt); err != nil {
			return errors.Annotatef(err, "drink %q", d.ID)
		}
	}
	return nil
}

// ValidateOrderItem checks an order line.
func ValidateOrderItem(item models.OrderItem) error {
	if item.ID == "" {
		return errors.NotValidf("order item without id")
	}
	if item.DrinkID == "" || item.DrinkName == "" {
		return errors.NotValidf("order item %q without drink", item.ID)
	}
	if item.Quantity < 1 {
		return errors.NotValidf("order item %q quantity %d", item.ID, item.Quantity)
	}
	if err := ValidatePrice(item.TotalPrice).Err(); err != nil {
		return errors.Annotatef(err, "order item %q", item.ID)
	}
	for _, opt := range item.SelectedOptions {
		if opt.ID == "" {
			return errors.NotValidf("order item %q option without id", item.ID)
		}
	}
	return nil
}

// ValidateOrder checks an order and each of its items, stopping at the
// first problem.
func ValidateOrder(o models.Order) error {
	if o.ID == "" {
		return errors.NotValidf("order without id")
	}
	if err := ValidateCustomerInfo(o.CustomerName, o.CustomerPhone).Err(); err != nil {
		return errors.Annotatef(err, "order %q", o.ID)
	}
	if !IsOrderStatus(o.Status) {
		return errors.NotValidf("order %q status %q", o.ID, o.Status)
	}
	if err := ValidatePrice(o.TotalAmount).Err(); err != nil {
		return errors.Annotatef(err, "order %q", o.ID)
	}
	if err := ValidateDate(o.CreatedAt).Err(); err != nil {
		return errors.Annotatef(err, "order %q created", o.ID)
	}
	if err := ValidateDate(o.UpdatedAt).Err(); err != nil {
		return errors.Annotatef(err, "order %q updated", o.ID)
	}
	if len(o.Items) == 0 {
		return errors.NotValidf("order %q with no items", o.ID)
	}
	for _, item := range o.Items {
		if err := ValidateOrderItem(item); err != nil {
			return errors.Annotatef(err, "order %q", o.ID)
		}
	}
	return nil
}

// ValidateSyrup checks a syrup record.
func ValidateSyrup(s models.Syrup) error {
	if s.ID == "" {
		return errors.NotValidf("syrup without id")
	}
	if s.Name == "" {
		return errors.NotValidf("syrup %q without name", s.ID)
	}
	if !IsSyrupStatus(s.Status) {
		return errors.NotValidf("syrup %q status %q", s.ID, s.Status)
	}
	return nil
}

// ValidateAppVersion checks the settings version is a semantic version.
func ValidateAppVersion(version string) error {
	if _, err := semver.StrictNewVersion(version); err != nil {
		return errors.NewNotValid(err, "app version "+version)
	}
	return nil
}
