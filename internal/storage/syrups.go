package storage

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"brewcart/internal/models"
	"brewcart/internal/validation"
)

// SyrupInput holds the admin-supplied fields of a new syrup.
type SyrupInput struct {
	Name   string             `json:"name"`
	Status models.SyrupStatus `json:"status,omitempty"`
}

// Syrups returns the syrup inventory.
func (s *Service) Syrups(ctx context.Context) []models.Syrup {
	return readCollection[models.Syrup](ctx, s, collectionSyrups, KeySyrups, validation.IsSyrup)
}

func (s *Service) loadSyrups(ctx context.Context) ([]record[models.Syrup], error) {
	return loadCollection[models.Syrup](ctx, s, collectionSyrups, KeySyrups, validation.IsSyrup)
}

// AddSyrup creates a syrup. Names are unique, ignoring case.
func (s *Service) AddSyrup(ctx context.Context, in SyrupInput) (models.Syrup, error) {
	now := s.now()
	syrup := models.Syrup{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if syrup.Status == "" {
		syrup.Status = models.SyrupAvailable
	}
	if err := validation.ValidateSyrup(syrup); err != nil {
		return models.Syrup{}, errors.Trace(err)
	}

	records, err := s.loadSyrups(ctx)
	if err != nil {
		return models.Syrup{}, errors.Trace(err)
	}
	for _, rec := range records {
		if rec.valid && strings.EqualFold(rec.value.Name, syrup.Name) {
			return models.Syrup{}, errors.AlreadyExistsf("syrup %q", syrup.Name)
		}
	}
	records = append(records, newRecord(syrup.ID, syrup))
	if err := storeCollection(ctx, s, collectionSyrups, KeySyrups, records); err != nil {
		return models.Syrup{}, errors.Trace(err)
	}
	logger.Infof("added syrup %q", syrup.Name)
	return syrup, nil
}

// UpdateSyrupStatus marks a syrup available or sold out.
func (s *Service) UpdateSyrupStatus(ctx context.Context, id string, status models.SyrupStatus) (models.Syrup, error) {
	if !validation.IsSyrupStatus(status) {
		return models.Syrup{}, errors.NotValidf("syrup status %q", status)
	}
	records, err := s.loadSyrups(ctx)
	if err != nil {
		return models.Syrup{}, errors.Trace(err)
	}
	for i := range records {
		rec := &records[i]
		if rec.id != id {
			continue
		}
		if !rec.valid {
			return models.Syrup{}, errors.NotValidf("unreadable stored syrup %q", id)
		}
		rec.value.Status = status
		rec.value.UpdatedAt = s.now()
		if err := storeCollection(ctx, s, collectionSyrups, KeySyrups, records); err != nil {
			return models.Syrup{}, errors.Trace(err)
		}
		return rec.value, nil
	}
	return models.Syrup{}, errors.NotFoundf("syrup %q", id)
}

// DeleteSyrup removes a syrup from the inventory. Orders keep their own
// snapshot of the syrup name, so history is unaffected.
func (s *Service) DeleteSyrup(ctx context.Context, id string) error {
	records, err := s.loadSyrups(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.id != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return errors.NotFoundf("syrup %q", id)
	}
	return storeCollection(ctx, s, collectionSyrups, KeySyrups, kept)
}
