package menu

import (
	"github.com/angelmondragon/restaurant-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// SampleCategories is the built-in menu served when no other catalog is configured.
func SampleCategories() []Category {
	return []Category{
		{
			Name: "Veg",
			Items: []Item{
				{
					ID:          "veg-1",
					Title:       "Paneer Butter Masala",
					Description: "Creamy tomato gravy & soft paneer cubes.",
					BasePrice:   price(220),
					Vegetarian:  true,
					AddOns: []AddOnOption{
						{ID: "ghee", Name: "Extra Ghee", Price: price(12), Mode: enums.AddOnModeMulti},
						{ID: "cheese", Name: "Cheese", Price: price(25), Mode: enums.AddOnModeMulti},
					},
				},
				{ID: "veg-2", Title: "Aloo Gobi", Description: "Spiced potatoes & cauliflower.", BasePrice: price(170), Vegetarian: true},
			},
		},
		{
			Name: "Non-Veg",
			Items: []Item{
				{
					ID:          "nv-1",
					Title:       "Chicken Tikka Masala",
					Description: "Smoky tandoori chicken in rich masala.",
					BasePrice:   price(280),
					AddOns: []AddOnOption{
						{ID: "extraChicken", Name: "Extra Chicken", Price: price(50), Mode: enums.AddOnModeMulti},
					},
				},
				{ID: "nv-2", Title: "Mutton Rogan Josh", Description: "Slow-cooked mutton in aromatic spices.", BasePrice: price(320)},
			},
		},
		{
			Name: "Desserts",
			Items: []Item{
				{ID: "dess-1", Title: "Gulab Jamun", Description: "Warm syrupy dumplings", BasePrice: price(80), Vegetarian: true},
				{ID: "dess-2", Title: "Rasmalai", Description: "Saffron milk & spongy cheese", BasePrice: price(95), Vegetarian: true},
			},
		},
		{
			Name: "Drinks",
			Items: []Item{
				{ID: "drk-1", Title: "Masala Chai", Description: "Spiced tea", BasePrice: price(35), Vegetarian: true},
				{ID: "drk-2", Title: "Mango Lassi", Description: "Creamy mango yogurt drink", BasePrice: price(70), Vegetarian: true},
			},
		},
	}
}

// Sample builds the catalog from SampleCategories.
func Sample() *Catalog {
	catalog, err := NewCatalog(SampleCategories())
	if err != nil {
		panic(err)
	}
	return catalog
}
