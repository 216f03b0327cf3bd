// Package inventory turns order history into ingredient counts for
// restocking. The tally is best effort: options without a recognised tag
// count towards nothing.
package inventory

import (
	"fmt"
	"sort"
	"strings"

	"brewcart/internal/models"
)

// Calculate tallies ingredients over orders. Every order counts, whatever
// its status, and the result does not depend on the order of the input.
func Calculate(orders []models.Order) models.InventoryStats {
	stats := models.NewInventoryStats()
	stats.TotalOrders = len(orders)
	for i := range orders {
		for j := range orders[i].Items {
			tallyItem(&stats, &orders[i].Items[j])
		}
	}
	return stats
}

func tallyItem(stats *models.InventoryStats, item *models.OrderItem) {
	if item.Quantity < 1 {
		return
	}
	qty := item.Quantity
	tags := item.Tags()
	stats.Drinks[item.DrinkName] += qty

	var dirty bool
	for _, tag := range tags {
		switch tag.Kind {
		case models.TagMilk:
			switch tag.Value {
			case "whole":
				stats.Milk.Whole += qty
			case "oat":
				stats.Milk.Oat += qty
			}
		case models.TagShots:
			if n, ok := tag.Shots(); ok && n > 0 {
				stats.Shots.Total += n * qty
				stats.Shots.ByDrink[item.DrinkName] += n * qty
			}
		case models.TagChocolate:
			switch tag.Value {
			case "regular":
				stats.Chocolate.Regular += qty
			case "white":
				stats.Chocolate.White += qty
			}
		case models.TagSyrup:
			stats.Syrups[strings.ToLower(tag.Value)] += qty
		case models.TagFlag:
			switch tag.Value {
			case models.FlagDirty:
				dirty = true
			case models.FlagCream:
				stats.Other.WithCream += qty
			}
		}
	}

	if strings.Contains(strings.ToLower(item.DrinkName), "chai") {
		if dirty {
			stats.Other.DirtyChai += qty
		} else {
			stats.Other.RegularChai += qty
		}
	}
}

// Row is one displayed line of a tally.
type Row struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Rows flattens stats into display rows, leaving out zero counts. Map
// buckets are listed by name.
func Rows(stats models.InventoryStats) []Row {
	rows := []Row{}
	add := func(label string, n int) {
		if n != 0 {
			rows = append(rows, Row{Label: label, Count: n})
		}
	}
	addMap := func(prefix string, m map[string]int) {
		for _, k := range sortedKeys(m) {
			add(fmt.Sprintf("%s: %s", prefix, k), m[k])
		}
	}

	add("Orders", stats.TotalOrders)
	addMap("Drink", stats.Drinks)
	add("Whole milk", stats.Milk.Whole)
	add("Oat milk", stats.Milk.Oat)
	add("Espresso shots", stats.Shots.Total)
	addMap("Shots", stats.Shots.ByDrink)
	add("Chocolate", stats.Chocolate.Regular)
	add("White chocolate", stats.Chocolate.White)
	addMap("Syrup", stats.Syrups)
	add("Chai", stats.Other.RegularChai)
	add("Dirty chai", stats.Other.DirtyChai)
	add("Whipped cream", stats.Other.WithCream)
	return rows
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
