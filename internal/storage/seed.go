package storage

import (
	"context"

	"github.com/juju/errors"

	"brewcart/internal/models"
)

func sizes() []models.DrinkOption {
	return []models.DrinkOption{
		{ID: "size-small", Name: "Small (12oz)", Type: models.OptionTypeSize, IsAvailable: true},
		{ID: "size-large", Name: "Large (16oz)", AdditionalCost: 50, Type: models.OptionTypeSize, IsAvailable: true},
	}
}

func milks() []models.DrinkOption {
	return []models.DrinkOption{
		{ID: "milk-whole", Name: "Whole Milk", Type: models.OptionTypeMilk, IsAvailable: true},
		{ID: "milk-oat", Name: "Oat Milk", AdditionalCost: 75, Type: models.OptionTypeMilk, IsAvailable: true},
	}
}

func syrupOptions() []models.DrinkOption {
	return []models.DrinkOption{
		{ID: "syrup-vanilla", Name: "Vanilla Syrup", AdditionalCost: 50, Type: models.OptionTypeExtras, IsAvailable: true},
		{ID: "syrup-caramel", Name: "Caramel Syrup", AdditionalCost: 50, Type: models.OptionTypeExtras, IsAvailable: true},
		{ID: "syrup-hazelnut", Name: "Hazelnut Syrup", AdditionalCost: 50, Type: models.OptionTypeExtras, IsAvailable: true},
	}
}

func options(groups ...[]models.DrinkOption) []models.DrinkOption {
	var out []models.DrinkOption
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var (
	extraShot  = models.DrinkOption{ID: "shots-1", Name: "Extra Shot", AdditionalCost: 100, Type: models.OptionTypeExtras, IsAvailable: true}
	whipCream  = models.DrinkOption{ID: models.FlagCream, Name: "Whipped Cream", AdditionalCost: 50, Type: models.OptionTypeExtras, IsAvailable: true}
	dirtyShot  = models.DrinkOption{ID: models.FlagDirty, Name: "Make it Dirty", AdditionalCost: 100, Type: models.OptionTypeExtras, IsAvailable: true}
	darkChoc   = models.DrinkOption{ID: "chocolate-regular", Name: "Chocolate", Type: models.OptionTypeExtras, IsAvailable: true}
	whiteChoc  = models.DrinkOption{ID: "chocolate-white", Name: "White Chocolate", Type: models.OptionTypeExtras, IsAvailable: true}
	doubleShot = models.DrinkOption{ID: "shots-2", Name: "Double Shot", Type: models.OptionTypeExtras, IsAvailable: true}
)

// DefaultMenu returns the menu a new cart starts with. Option ids carry the
// inventory tag prefixes, so the tally can count ingredients.
func DefaultMenu() []models.Drink {
	return []models.Drink{
		{
			ID: "mocha", Name: "Mocha", Category: models.CategoryMocha, BasePrice: 450, IsAvailable: true,
			Options: options(sizes(), milks(), []models.DrinkOption{doubleShot, extraShot, darkChoc, whiteChoc, whipCream}),
		},
		{
			ID: "chai-latte", Name: "Chai Latte", Category: models.CategoryChaiLatte, BasePrice: 425, IsAvailable: true,
			Options: options(sizes(), milks(), []models.DrinkOption{dirtyShot, whipCream}),
		},
		{
			ID: "latte", Name: "Latte", Category: models.CategoryLatte, BasePrice: 400, IsAvailable: true,
			Options: options(sizes(), milks(), []models.DrinkOption{doubleShot, extraShot}, syrupOptions()),
		},
		{
			ID: "hot-chocolate", Name: "Hot Chocolate", Category: models.CategoryHotChocolate, BasePrice: 350, IsAvailable: true,
			Options: options(sizes(), milks(), []models.DrinkOption{darkChoc, whiteChoc, whipCream}),
		},
		{
			ID: "americano", Name: "Americano", Category: models.CategoryAmericano, BasePrice: 300, IsAvailable: true,
			Options: options(sizes(), []models.DrinkOption{doubleShot, extraShot}),
		},
		{
			ID: "italian-soda", Name: "Italian Soda", Category: models.CategoryItalianSoda, BasePrice: 350, IsAvailable: true,
			Options: options(sizes(), syrupOptions(), []models.DrinkOption{whipCream}),
		},
	}
}

// DefaultSyrups lists the syrups a new cart stocks.
var DefaultSyrups = []string{"Vanilla", "Caramel", "Hazelnut"}

// SeedDefaults writes the default menu and syrups into an empty store.
// Collections that already hold data are left alone.
func (s *Service) SeedDefaults(ctx context.Context) error {
	drinks, err := s.loadDrinks(ctx)
	if err != nil {
		return errors.Annotate(err, "seeding menu")
	}
	if len(drinks) == 0 {
		if err := s.SaveDrinks(ctx, DefaultMenu()); err != nil {
			return errors.Annotate(err, "seeding menu")
		}
		logger.Infof("seeded default menu")
	}
	syrups, err := s.loadSyrups(ctx)
	if err != nil {
		return errors.Annotate(err, "seeding syrups")
	}
	if len(syrups) == 0 {
		for _, name := range DefaultSyrups {
			if _, err := s.AddSyrup(ctx, SyrupInput{Name: name}); err != nil {
				return errors.Annotatef(err, "seeding syrup %q", name)
			}
		}
	}
	return nil
}
