package domain

// FilterField selects the metadata field matched by the free-text search.
type FilterField string

const (
	FilterFieldName   FilterField = "name"
	FilterFieldSymbol FilterField = "symbol"
)

// IsValid checks if the filter field is a valid value.
func (f FilterField) IsValid() bool {
	return f == FilterFieldName || f == FilterFieldSymbol
}

// SortKey selects the numeric field the view is ordered by.
type SortKey string

const (
	SortKeyMarketCap  SortKey = "marketCapSol"
	SortKeyInitialBuy SortKey = "initialBuy"
	SortKeyLiquidity  SortKey = "liquidity"
	SortKeyHolders    SortKey = "holders"
)

// IsValid checks if the sort key is a valid value.
func (k SortKey) IsValid() bool {
	switch k {
	case SortKeyMarketCap, SortKeyInitialBuy, SortKeyLiquidity, SortKeyHolders:
		return true
	}
	return false
}

// SortDirection orders the view ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// IsValid checks if the sort direction is a valid value.
func (d SortDirection) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

// DefaultPageSize is the fixed number of records per page.
const DefaultPageSize = 12

// ViewQuery describes one request for the filtered/sorted/paginated view.
// It is ephemeral and never persisted. Nil range bounds mean "no constraint"
// on that side.
type ViewQuery struct {
	Search      string
	FilterField FilterField

	MinMarketCap  *float64
	MaxMarketCap  *float64
	MinInitialBuy *float64
	MaxInitialBuy *float64

	SortBy  SortKey
	SortDir SortDirection

	Page     int // 1-based
	PageSize int
}

// DefaultViewQuery returns the query the view starts with: no filters,
// newest-first store order preserved under a descending market cap sort.
func DefaultViewQuery() ViewQuery {
	return ViewQuery{
		FilterField: FilterFieldName,
		SortBy:      SortKeyMarketCap,
		SortDir:     SortDesc,
		Page:        1,
		PageSize:    DefaultPageSize,
	}
}
