package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
)

func rec(uri string, marketCap float64, name, symbol string) *domain.TokenRecord {
	r := &domain.TokenRecord{URI: uri, MarketCapSol: marketCap}
	if name != "" || symbol != "" {
		r.Metadata = &domain.TokenMetadata{Name: name, Symbol: symbol}
	}
	return r
}

func f(v float64) *float64 { return &v }

func TestBuild_SearchByName(t *testing.T) {
	records := []*domain.TokenRecord{
		rec("u1", 1, "Solana Cat", "SCAT"),
		rec("u2", 2, "Doge", "DOGE"),
		rec("u3", 3, "", ""), // metadata absent, never matches
	}

	q := domain.DefaultViewQuery()
	q.Search = "sol"

	page := Build(records, nil, q)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "u1", page.Items[0].Record.URI)
}

func TestBuild_SearchBySymbolCaseInsensitive(t *testing.T) {
	records := []*domain.TokenRecord{
		rec("u1", 1, "Alpha", "SOLCAT"),
		rec("u2", 2, "Beta", "wSOL"),
		rec("u3", 3, "Gamma", "DOGE"),
		{URI: "u4", MarketCapSol: 4}, // no metadata
	}

	q := domain.DefaultViewQuery()
	q.Search = "SOL"
	q.FilterField = domain.FilterFieldSymbol

	page := Build(records, nil, q)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Contains(t, []string{"u1", "u2"}, item.Record.URI)
	}
}

func TestBuild_SearchNoMetadataYieldsEmpty(t *testing.T) {
	records := []*domain.TokenRecord{{URI: "u1"}, {URI: "u2"}}

	q := domain.DefaultViewQuery()
	q.Search = "sol"
	q.FilterField = domain.FilterFieldSymbol

	page := Build(records, nil, q)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Summary.Count)
}

func TestBuild_RangeFilters(t *testing.T) {
	records := []*domain.TokenRecord{
		{URI: "u1", MarketCapSol: 5, InitialBuy: 1},
		{URI: "u2", MarketCapSol: 15, InitialBuy: 2},
		{URI: "u3", MarketCapSol: 25, InitialBuy: 3},
	}

	q := domain.DefaultViewQuery()
	q.MinMarketCap = f(10)
	q.MaxMarketCap = f(20)

	page := Build(records, nil, q)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "u2", page.Items[0].Record.URI)

	// Bounds are inclusive.
	q.MinMarketCap = f(15)
	q.MaxMarketCap = f(15)
	page = Build(records, nil, q)
	require.Len(t, page.Items, 1)

	// Nil bounds are unconstrained.
	q = domain.DefaultViewQuery()
	q.MinInitialBuy = f(2)
	page = Build(records, nil, q)
	assert.Len(t, page.Items, 2)
}

func TestBuild_SortStableOnTies(t *testing.T) {
	records := []*domain.TokenRecord{
		{URI: "u1", MarketCapSol: 10, Holders: 5},
		{URI: "u2", MarketCapSol: 10, Holders: 9},
		{URI: "u3", MarketCapSol: 10, Holders: 1},
	}

	q := domain.DefaultViewQuery()
	q.SortBy = domain.SortKeyMarketCap
	q.SortDir = domain.SortAsc

	// All keys equal: store order is preserved.
	page := Build(records, nil, q)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "u1", page.Items[0].Record.URI)
	assert.Equal(t, "u2", page.Items[1].Record.URI)
	assert.Equal(t, "u3", page.Items[2].Record.URI)
}

func TestBuild_SortDirections(t *testing.T) {
	records := []*domain.TokenRecord{
		{URI: "u1", Liquidity: 30},
		{URI: "u2", Liquidity: 10},
		{URI: "u3", Liquidity: 20},
	}

	q := domain.DefaultViewQuery()
	q.SortBy = domain.SortKeyLiquidity
	q.SortDir = domain.SortAsc

	page := Build(records, nil, q)
	assert.Equal(t, "u2", page.Items[0].Record.URI)
	assert.Equal(t, "u1", page.Items[2].Record.URI)

	q.SortDir = domain.SortDesc
	page = Build(records, nil, q)
	assert.Equal(t, "u1", page.Items[0].Record.URI)
}

func TestBuild_Idempotent(t *testing.T) {
	records := []*domain.TokenRecord{
		rec("u1", 5, "Alpha", "A"),
		rec("u2", 15, "Beta", "B"),
		rec("u3", 10, "Gamma", "C"),
	}

	q := domain.DefaultViewQuery()
	q.SortBy = domain.SortKeyMarketCap
	q.SortDir = domain.SortDesc

	first := Build(records, nil, q)
	second := Build(records, nil, q)

	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Record.URI, second.Items[i].Record.URI)
	}
	assert.Equal(t, first.Summary, second.Summary)
}

func TestBuild_Pagination(t *testing.T) {
	var records []*domain.TokenRecord
	for i := 0; i < 29; i++ {
		records = append(records, &domain.TokenRecord{URI: string(rune('a' + i))})
	}

	q := domain.DefaultViewQuery()

	page := Build(records, nil, q)
	assert.Len(t, page.Items, 12)
	assert.Equal(t, 3, page.Summary.TotalPages)

	q.Page = 3
	page = Build(records, nil, q)
	// Last page holds N mod 12 records.
	assert.Len(t, page.Items, 5)

	// N a multiple of page size: last page is full.
	q.Page = 2
	page = Build(records[:24], nil, q)
	assert.Len(t, page.Items, 12)
	assert.Equal(t, 2, page.Summary.TotalPages)
}

func TestBuild_PageOutOfRange(t *testing.T) {
	records := []*domain.TokenRecord{{URI: "u1"}, {URI: "u2"}}

	q := domain.DefaultViewQuery()
	q.Page = 9

	page := Build(records, nil, q)
	assert.Empty(t, page.Items)
	assert.Equal(t, 2, page.Summary.Count)
	assert.Equal(t, 1, page.Summary.TotalPages)
}

func TestBuild_SummaryOverFilteredSet(t *testing.T) {
	records := []*domain.TokenRecord{
		rec("u1", 10, "Solana One", "S1"),
		rec("u2", 20, "Solana Two", "S2"),
		rec("u3", 100, "Other", "O"),
	}

	q := domain.DefaultViewQuery()
	q.Search = "solana"

	page := Build(records, nil, q)
	assert.Equal(t, 2, page.Summary.Count)
	assert.InDelta(t, 30.0, page.Summary.TotalMarketCapSol, 1e-9)
	assert.Greater(t, page.Summary.AverageRiskPercent, 0.0)
}

func TestBuild_FavoritedFlag(t *testing.T) {
	records := []*domain.TokenRecord{{URI: "u1"}, {URI: "u2"}}
	favs := map[string]bool{"u2": true}

	page := Build(records, favs, domain.DefaultViewQuery())
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Equal(t, item.Record.URI == "u2", item.Favorited)
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	records := []*domain.TokenRecord{
		{URI: "u1", MarketCapSol: 1},
		{URI: "u2", MarketCapSol: 3},
		{URI: "u3", MarketCapSol: 2},
	}

	q := domain.DefaultViewQuery()
	q.SortBy = domain.SortKeyMarketCap
	q.SortDir = domain.SortAsc
	Build(records, nil, q)

	// The caller's slice keeps its original order.
	assert.Equal(t, "u1", records[0].URI)
	assert.Equal(t, "u2", records[1].URI)
	assert.Equal(t, "u3", records[2].URI)
}
