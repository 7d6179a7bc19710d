package domain

// OrderItem is one row of the reorder-planning view: current stock plus a
// purchase suggestion derived from recent outward movement. Pointer
// fields are nil when the item has no package factor.
type OrderItem struct {
	Name              string   `json:"name"`
	Group             string   `json:"group,omitempty"`
	BaseUnit          string   `json:"baseUnit"`
	PkgFactor         *float64 `json:"pkgFactor,omitempty"`
	ClosingBase       float64  `json:"closingBase"`
	ClosingPkg        *float64 `json:"closingPkg,omitempty"`
	SuggestionBase    float64  `json:"suggestionBase"`
	SuggestionPkg     *float64 `json:"suggestionPkg,omitempty"`
	AvgMonthlyOutward float64  `json:"avgMonthlyOutward"`
}
