package models

// Drink represents a drink on the menu
type Drink struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    DrinkCategory `json:"category"`
	BasePrice   int64         `json:"basePrice"`
	Options     []DrinkOption `json:"options"`
	IsAvailable bool          `json:"isAvailable"`
}

// DrinkOption represents a customization offered for a drink. Options are
// copied into an OrderItem at order time, so the snapshot carries a decoded tag.
type DrinkOption struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	AdditionalCost int64      `json:"additionalCost"`
	Type           OptionType `json:"type"`
	IsAvailable    bool       `json:"isAvailable"`
	Tag            OptionTag  `json:"tag"`
}

// DrinkCategory represents the category of a drink
type DrinkCategory string

const (
	// Drink categories
	CategoryMocha        DrinkCategory = "mocha"
	CategoryChaiLatte    DrinkCategory = "chai-latte"
	CategoryLatte        DrinkCategory = "latte"
	CategoryHotChocolate DrinkCategory = "hot-chocolate"
	CategoryAmericano    DrinkCategory = "americano"
	CategoryItalianSoda  DrinkCategory = "italian-soda"
)

// DrinkCategories lists every category accepted by the menu.
var DrinkCategories = []DrinkCategory{
	CategoryMocha,
	CategoryChaiLatte,
	CategoryLatte,
	CategoryHotChocolate,
	CategoryAmericano,
	CategoryItalianSoda,
}

// OptionType represents the kind of customization an option is
type OptionType string

const (
	OptionTypeSize   OptionType = "size"
	OptionTypeMilk   OptionType = "milk"
	OptionTypeExtras OptionType = "extras"
)

// OptionTypes lists every accepted option type.
var OptionTypes = []OptionType{OptionTypeSize, OptionTypeMilk, OptionTypeExtras}

// Option returns the option with the given id.
func (d *Drink) Option(id string) (DrinkOption, bool) {
	for _, opt := range d.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return DrinkOption{}, false
}

// IsInCategory checks if the drink belongs to a specific category
func (d *Drink) IsInCategory(category DrinkCategory) bool {
	return d.Category == category
}

// Snapshot returns a copy of the option suitable for storing on an order
// item, with its tag decoded from the id.
func (o DrinkOption) Snapshot() DrinkOption {
	o.Tag = DecodeOptionTag(o.ID)
	return o
}
