package storage

import (
	"context"

	"github.com/juju/errors"

	"brewcart/internal/models"
	"brewcart/internal/validation"
)

// Drinks returns the menu, or an empty menu when none is stored.
func (s *Service) Drinks(ctx context.Context) []models.Drink {
	return readCollection[models.Drink](ctx, s, collectionDrinks, KeyDrinks, validation.IsDrink)
}

func (s *Service) loadDrinks(ctx context.Context) ([]record[models.Drink], error) {
	return loadCollection[models.Drink](ctx, s, collectionDrinks, KeyDrinks, validation.IsDrink)
}

// SaveDrinks replaces the menu. Every drink is validated first and nothing
// is written if any fails.
func (s *Service) SaveDrinks(ctx context.Context, drinks []models.Drink) error {
	seen := make(map[string]bool, len(drinks))
	for _, d := range drinks {
		if err := validation.ValidateDrink(d); err != nil {
			return errors.Trace(err)
		}
		if seen[d.ID] {
			return errors.NotValidf("duplicate drink id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return writeCollection(ctx, s, collectionDrinks, KeyDrinks, drinks)
}

// SetDrinkAvailability toggles whether a drink can be ordered.
func (s *Service) SetDrinkAvailability(ctx context.Context, id string, available bool) (models.Drink, error) {
	records, err := s.loadDrinks(ctx)
	if err != nil {
		return models.Drink{}, errors.Trace(err)
	}
	for i := range records {
		rec := &records[i]
		if rec.id != id {
			continue
		}
		if !rec.valid {
			return models.Drink{}, errors.NotValidf("unreadable stored drink %q", id)
		}
		rec.value.IsAvailable = available
		if err := storeCollection(ctx, s, collectionDrinks, KeyDrinks, records); err != nil {
			return models.Drink{}, errors.Trace(err)
		}
		logger.Infof("drink %q available=%t", id, available)
		return rec.value, nil
	}
	return models.Drink{}, errors.NotFoundf("drink %q", id)
}
