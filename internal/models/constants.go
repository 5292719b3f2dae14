package models

// Category names used by the built-in definitions, the amount heuristics,
// and the degraded-assignment fallback.
const (
	CategoryOfficeSupplies = "Office Supplies"
	CategoryMeals          = "Meals & Entertainment"
	CategoryTravel         = "Travel"
	CategoryTechnology     = "Technology"
	CategoryMarketing      = "Marketing"
	CategoryUtilities      = "Utilities"
	CategoryProfessional   = "Professional Services"
	CategoryMiscellaneous  = "Miscellaneous"
	CategoryUncategorized  = "Uncategorized"
)

// Expense statuses
const (
	StatusProcessed = "processed"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
