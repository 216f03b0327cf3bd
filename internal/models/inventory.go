package models

import "time"

// Syrup represents a syrup the cart keeps in stock
type Syrup struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    SyrupStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// SyrupStatus represents the stock status of a syrup
type SyrupStatus string

const (
	SyrupAvailable SyrupStatus = "available"
	SyrupSoldOut   SyrupStatus = "soldOut"
)

// InventoryStats is the ingredient-level tally derived from order history.
type InventoryStats struct {
	TotalOrders int            `json:"totalOrders"`
	Drinks      map[string]int `json:"drinks"`
	Milk        MilkStats      `json:"milk"`
	Shots       ShotStats      `json:"shots"`
	Chocolate   ChocolateStats `json:"chocolate"`
	Syrups      map[string]int `json:"syrups"`
	Other       OtherStats     `json:"other"`
}

// MilkStats counts drinks by milk choice
type MilkStats struct {
	Whole int `json:"whole"`
	Oat   int `json:"oat"`
}

// ShotStats counts espresso shots
type ShotStats struct {
	Total   int            `json:"total"`
	ByDrink map[string]int `json:"byDrink"`
}

// ChocolateStats counts drinks by chocolate choice
type ChocolateStats struct {
	Regular int `json:"regular"`
	White   int `json:"white"`
}

// OtherStats holds the counters that fit no ingredient bucket
type OtherStats struct {
	RegularChai int `json:"regularChai"`
	DirtyChai   int `json:"dirtyChai"`
	WithCream   int `json:"withCream"`
}

// NewInventoryStats returns stats with every map initialised.
func NewInventoryStats() InventoryStats {
	return InventoryStats{
		Drinks: make(map[string]int),
		Shots:  ShotStats{ByDrink: make(map[string]int)},
		Syrups: make(map[string]int),
	}
}
