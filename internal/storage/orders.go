package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"brewcart/internal/models"
	"brewcart/internal/validation"
)

// Orders returns the full order history in stored order.
func (s *Service) Orders(ctx context.Context) []models.Order {
	return readCollection[models.Order](ctx, s, collectionOrders, KeyOrders, validation.IsOrder)
}

func (s *Service) loadOrders(ctx context.Context) ([]record[models.Order], error) {
	return loadCollection[models.Order](ctx, s, collectionOrders, KeyOrders, validation.IsOrder)
}

// SaveOrders replaces the readable order history. Orders are never deleted,
// so the new list must still contain every stored order id. Stored records
// that cannot be read are kept unless orders carries a replacement.
func (s *Service) SaveOrders(ctx context.Context, orders []models.Order) error {
	ids := make(map[string]bool, len(orders))
	for _, o := range orders {
		if err := validation.ValidateOrder(o); err != nil {
			return errors.Trace(err)
		}
		if ids[o.ID] {
			return errors.NotValidf("duplicate order id %q", o.ID)
		}
		ids[o.ID] = true
	}

	stored, err := s.loadOrders(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	records := make([]record[models.Order], 0, len(orders)+len(stored))
	for _, o := range orders {
		records = append(records, newRecord(o.ID, o))
	}
	for _, rec := range stored {
		switch {
		case rec.valid && !ids[rec.id]:
			return errors.NotValidf("removing order %q from history", rec.id)
		case !rec.valid && !ids[rec.id]:
			records = append(records, rec)
		}
	}
	return storeCollection(ctx, s, collectionOrders, KeyOrders, records)
}

// AddOrder completes and appends a new order. Missing ids are generated,
// status defaults to pending, timestamps default to now and a zero total is
// computed from the items.
func (s *Service) AddOrder(ctx context.Context, order models.Order) (models.Order, error) {
	now := s.now()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	switch total := order.Total(); {
	case order.TotalAmount == 0:
		order.TotalAmount = total
	case order.TotalAmount != total:
		return models.Order{}, errors.NotValidf("order total %d for items totalling %d", order.TotalAmount, total)
	}
	if err := validation.ValidateOrder(order); err != nil {
		return models.Order{}, errors.Trace(err)
	}

	records, err := s.loadOrders(ctx)
	if err != nil {
		return models.Order{}, errors.Trace(err)
	}
	for _, rec := range records {
		if rec.id == order.ID {
			return models.Order{}, errors.AlreadyExistsf("order %q", order.ID)
		}
	}
	records = append(records, newRecord(order.ID, order))
	if err := storeCollection(ctx, s, collectionOrders, KeyOrders, records); err != nil {
		return models.Order{}, errors.Trace(err)
	}
	logger.Infof("order %s added for %q with %d item(s)", order.ID, order.CustomerName, len(order.Items))
	return order, nil
}

// UpdateOrderStatus moves an order along its status machine. barista, when
// not empty, replaces the assigned barista.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, barista string) (models.Order, error) {
	if !validation.IsOrderStatus(status) {
		return models.Order{}, errors.NotValidf("order status %q", status)
	}
	records, err := s.loadOrders(ctx)
	if err != nil {
		return models.Order{}, errors.Trace(err)
	}
	for i := range records {
		rec := &records[i]
		if rec.id != id {
			continue
		}
		if !rec.valid {
			return models.Order{}, errors.NotValidf("unreadable stored order %q", id)
		}
		o := &rec.value
		if !o.Status.CanTransition(status) {
			return models.Order{}, errors.NotValidf("order %q transition %s -> %s", id, o.Status, status)
		}
		o.Status = status
		o.UpdatedAt = s.now()
		if barista != "" {
			o.AssignedBarista = barista
		}
		if err := storeCollection(ctx, s, collectionOrders, KeyOrders, records); err != nil {
			return models.Order{}, errors.Trace(err)
		}
		logger.Infof("order %s is now %s", id, status)
		return *o, nil
	}
	return models.Order{}, errors.NotFoundf("order %q", id)
}
