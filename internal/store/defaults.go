package store

import "fjacquet/receipt-processor/internal/models"

// DefaultCategories returns the built-in expense category definitions used
// when no categories file is found. The slice is rebuilt on every call so
// callers can modify it freely. Keywords and vendors are stored lower-case;
// matching is case-insensitive throughout.
func DefaultCategories() []models.CategoryDefinition {
	return []models.CategoryDefinition{
		{
			Name:        models.CategoryOfficeSupplies,
			Description: "General office supplies and materials",
			Keywords:    []string{"paper", "pen", "pencil", "stapler", "folder", "binder", "supplies"},
			Vendors:     []string{"staples", "office depot", "best buy"},
		},
		{
			Name:        models.CategoryMeals,
			Description: "Business meals and entertainment expenses",
			Keywords:    []string{"restaurant", "food", "lunch", "dinner", "coffee", "catering"},
			Vendors:     []string{"mcdonalds", "starbucks", "subway", "dominos"},
		},
		{
			Name:        models.CategoryTravel,
			Description: "Travel and transportation expenses",
			Keywords:    []string{"hotel", "flight", "airline", "uber", "taxi", "gas", "parking"},
			Vendors:     []string{"hilton", "marriott", "delta", "united", "shell", "exxon"},
		},
		{
			Name:        models.CategoryTechnology,
			Description: "Technology equipment and software",
			Keywords:    []string{"computer", "software", "laptop", "phone", "tablet", "tech"},
			Vendors:     []string{"apple", "microsoft", "amazon", "best buy"},
		},
		{
			Name:        models.CategoryMarketing,
			Description: "Marketing and advertising expenses",
			Keywords:    []string{"advertising", "marketing", "promotion", "print", "design"},
			Vendors:     []string{"facebook", "google", "adobe"},
		},
		{
			Name:        models.CategoryUtilities,
			Description: "Utility bills and services",
			Keywords:    []string{"electric", "water", "gas", "internet", "phone", "utility"},
			Vendors:     []string{"verizon", "att", "comcast"},
		},
		{
			Name:        models.CategoryProfessional,
			Description: "Professional services and consulting",
			Keywords:    []string{"consultant", "legal", "accounting", "professional", "service"},
			Vendors:     []string{"law", "cpa", "consulting"},
		},
		miscellaneousDefinition(),
	}
}

func miscellaneousDefinition() models.CategoryDefinition {
	return models.CategoryDefinition{
		Name:        models.CategoryMiscellaneous,
		Description: "Other business expenses",
		Keywords:    []string{"misc", "other", "various"},
	}
}
