package models

import (
	"time"
)

// Order represents a customer order. Orders are append-only history: the
// only mutation after checkout is a status transition.
type Order struct {
	ID                      string      `json:"id"`
	CustomerName            string      `json:"customerName"`
	CustomerPhone           string      `json:"customerPhone,omitempty"`
	Items                   []OrderItem `json:"items"`
	TotalAmount             int64       `json:"totalAmount"`
	Status                  OrderStatus `json:"status"`
	CreatedAt               time.Time   `json:"createdAt"`
	UpdatedAt               time.Time   `json:"updatedAt"`
	AssignedBarista         string      `json:"assignedBarista,omitempty"`
	EstimatedCompletionTime *time.Time  `json:"estimatedCompletionTime,omitempty"`
}

// OrderItem represents an item in an order
type OrderItem struct {
	ID              string        `json:"id"`
	DrinkID         string        `json:"drinkId"`
	DrinkName       string        `json:"drinkName"`
	Quantity        int           `json:"quantity"`
	SelectedOptions []DrinkOption `json:"selectedOptions"`
	TotalPrice      int64         `json:"totalPrice"`
}

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every accepted order status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusInProgress,
	OrderStatusInProgress: OrderStatusReady,
	OrderStatusReady:      OrderStatusCompleted,
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether an order may move from s to next. Orders
// progress one step at a time and can be cancelled from any non-terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return nextStatus[s] == next
}

// NewOrderItem builds an order item for a drink, snapshotting the chosen
// options and pricing the line in cents.
func NewOrderItem(id string, drink Drink, quantity int, options []DrinkOption) OrderItem {
	unit := drink.BasePrice
	selected := make([]DrinkOption, 0, len(options))
	for _, opt := range options {
		unit += opt.AdditionalCost
		selected = append(selected, opt.Snapshot())
	}
	return OrderItem{
		ID:              id,
		DrinkID:         drink.ID,
		DrinkName:       drink.Name,
		Quantity:        quantity,
		SelectedOptions: selected,
		TotalPrice:      unit * int64(quantity),
	}
}

// Total sums the item prices in cents.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.TotalPrice
	}
	return total
}

// Tags returns the decoded tags of the selected options. Snapshots written
// before tags were stored are decoded from their ids.
func (i *OrderItem) Tags() []OptionTag {
	tags := make([]OptionTag, 0, len(i.SelectedOptions))
	for _, opt := range i.SelectedOptions {
		tag := opt.Tag
		if tag.Kind == TagNone {
			tag = DecodeOptionTag(opt.ID)
		}
		tags = append(tags, tag)
	}
	return tags
}
