package filter

import "github.com/rushteam/bagrec/core"

func bags() []core.Item {
	return []core.Item{
		{ID: "bag1", Name: "Evening Bread Mix", Vendor: "Lagos Bakery", Price: 1500, OriginalValue: 4500, Category: "bakery", Tags: []string{"bread", "pastry", "dinner"}, Location: core.Coordinate{Lat: 6.5244, Lng: 3.3792}},
		{ID: "bag2", Name: "Veggie Surprise", Vendor: "Green Harvest", Price: 2200, OriginalValue: 6000, Category: "grocery", Tags: []string{"vegetables", "organic", "healthy"}, Location: core.Coordinate{Lat: 6.5350, Lng: 3.3892}},
		{ID: "bag3", Name: "Lunch Special", Vendor: "Spice Haven", Price: 2500, OriginalValue: 7500, Category: "restaurant", Tags: []string{"lunch", "spicy", "meal"}, Location: core.Coordinate{Lat: 6.5150, Lng: 3.3692}},
		{ID: "bag4", Name: "Fruit Basket", Vendor: "Fresh Picks", Price: 1800, OriginalValue: 5000, Category: "grocery", Tags: []string{"fruits", "fresh", "healthy"}, Location: core.Coordinate{Lat: 6.5100, Lng: 3.3800}},
		{ID: "bag5", Name: "Pastry Box", Vendor: "Sweet Delights", Price: 1200, OriginalValue: 3600, Category: "bakery", Tags: []string{"pastry", "sweet", "dessert"}, Location: core.Coordinate{Lat: 6.5300, Lng: 3.3750}},
	}
}

func itemIDs(items []core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
