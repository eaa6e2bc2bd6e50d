// Package view derives the filtered/sorted/paginated projection of the token
// store that the presentation layer reads. Derivation is pure: given the same
// store snapshot, watchlist snapshot and query it always produces the same
// page, and nothing here mutates its inputs.
package view

import (
	"sort"
	"strings"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/score"
)

// Item is one record of the projected page with its derived values attached.
type Item struct {
	Record    *domain.TokenRecord `json:"record"`
	Score     int                 `json:"score"`
	Risk      domain.RiskProfile  `json:"risk"`
	Favorited bool                `json:"favorited"`
}

// Summary aggregates the whole filtered set, not just the current page.
type Summary struct {
	Count              int     `json:"count"`
	TotalMarketCapSol  float64 `json:"totalMarketCapSol"`
	AverageRiskPercent float64 `json:"averageRiskPercent"`
	TotalPages         int     `json:"totalPages"`
}

// Page is the result of one view derivation.
type Page struct {
	Items   []Item  `json:"items"`
	Page    int     `json:"page"`
	Summary Summary `json:"summary"`
}

// Build derives the page for the given store snapshot, watchlist membership
// and query. Records must be in store order (newest first); ties under the
// sort key keep that order.
func Build(records []*domain.TokenRecord, favorited map[string]bool, q domain.ViewQuery) Page {
	filtered := filter(records, q)
	sortRecords(filtered, q)

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	pageNum := q.Page
	if pageNum < 1 {
		pageNum = 1
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize

	start := (pageNum - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start, end = 0, 0
	} else if end > len(filtered) {
		end = len(filtered)
	}

	items := make([]Item, 0, end-start)
	for _, r := range filtered[start:end] {
		items = append(items, Item{
			Record:    r,
			Score:     score.Quality(r),
			Risk:      score.Risk(r),
			Favorited: favorited[r.URI],
		})
	}

	return Page{
		Items:   items,
		Page:    pageNum,
		Summary: summarize(filtered, totalPages),
	}
}

// filter applies the search term and the numeric range bounds.
func filter(records []*domain.TokenRecord, q domain.ViewQuery) []*domain.TokenRecord {
	needle := strings.ToLower(q.Search)

	out := make([]*domain.TokenRecord, 0, len(records))
	for _, r := range records {
		if needle != "" {
			haystack := strings.ToLower(r.MetadataField(q.FilterField))
			if haystack == "" || !strings.Contains(haystack, needle) {
				continue
			}
		}
		if !inRange(r.MarketCapSol, q.MinMarketCap, q.MaxMarketCap) {
			continue
		}
		if !inRange(r.InitialBuy, q.MinInitialBuy, q.MaxInitialBuy) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// inRange checks an inclusive numeric range; a nil bound is unconstrained.
func inRange(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

// sortRecords orders by the sort key, stable so equal keys keep store order.
// Missing numeric values compare as 0.
func sortRecords(records []*domain.TokenRecord, q domain.ViewQuery) {
	key := sortValue(q.SortBy)
	desc := q.SortDir == domain.SortDesc

	sort.SliceStable(records, func(i, j int) bool {
		a, b := key(records[i]), key(records[j])
		if desc {
			return a > b
		}
		return a < b
	})
}

func sortValue(k domain.SortKey) func(*domain.TokenRecord) float64 {
	switch k {
	case domain.SortKeyInitialBuy:
		return func(r *domain.TokenRecord) float64 { return r.InitialBuy }
	case domain.SortKeyLiquidity:
		return func(r *domain.TokenRecord) float64 { return r.Liquidity }
	case domain.SortKeyHolders:
		return func(r *domain.TokenRecord) float64 { return float64(r.Holders) }
	default:
		return func(r *domain.TokenRecord) float64 { return r.MarketCapSol }
	}
}

func summarize(filtered []*domain.TokenRecord, totalPages int) Summary {
	s := Summary{Count: len(filtered), TotalPages: totalPages}
	if len(filtered) == 0 {
		return s
	}

	riskSum := 0
	for _, r := range filtered {
		s.TotalMarketCapSol += r.MarketCapSol
		riskSum += score.Risk(r).Percentage
	}
	s.AverageRiskPercent = float64(riskSum) / float64(len(filtered))
	return s
}
