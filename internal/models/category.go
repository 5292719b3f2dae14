package models

// CategoryDefinition describes one expense category: the keywords and vendor
// names the categorizer matches against, plus a human-readable description.
type CategoryDefinition struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Vendors     []string `yaml:"vendors,omitempty" json:"vendors,omitempty"`
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []CategoryDefinition `yaml:"categories"`
}

// Signal identifies which heuristic produced a category assignment.
type Signal string

// Categorization signals, in the order the heuristics are tried.
const (
	SignalVendor  Signal = "vendor"
	SignalItems   Signal = "items"
	SignalText    Signal = "text"
	SignalAmount  Signal = "amount"
	SignalDefault Signal = "default"
)

// CategoryAssignment is the outcome of categorizing one record: the chosen
// category, a confidence estimate, and the signal that made the decision.
type CategoryAssignment struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Signal     Signal  `json:"signal"`
}

// CategoryScore pairs a category name with a confidence score, used for
// ranked suggestion lists.
type CategoryScore struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}
