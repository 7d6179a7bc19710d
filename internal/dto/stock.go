package dto

// StockPeriodQuery bounds a per-item inventory period. Dates are YYYYMMDD
// and the range is inclusive on both ends.
type StockPeriodQuery struct {
	From string `form:"from" binding:"required,tallydate"`
	To   string `form:"to" binding:"required,tallydate"`
}

// MonthlyHistoryQuery bounds a trailing month-by-month history.
type MonthlyHistoryQuery struct {
	Months int `form:"months" binding:"omitempty,gte=1,lte=60"`
}

// AnnualSummaryQuery selects the fiscal year for the month-wise summary.
// Year is the calendar year the fiscal year starts in.
type AnnualSummaryQuery struct {
	Year int `form:"year" binding:"required,gte=1990,lte=2100"`
}

// OrderItemsQuery tunes the reorder-planning view.
type OrderItemsQuery struct {
	MonthsCover int    `form:"monthsCover" binding:"omitempty,gte=1,lte=24"`
	Lookback    int    `form:"lookback" binding:"omitempty,gte=1,lte=36"`
	Group       string `form:"group"`
}
