package domain

// TokenRecord represents one discovered token's aggregated data.
// URI is the primary identifier; duplicates are permitted because no
// dedup is performed on ingest.
type TokenRecord struct {
	URI  string `json:"uri"`            // content URI, primary identifier
	Mint string `json:"mint,omitempty"` // chain address (optional), used for routing and price lookup

	MarketCapSol    float64   `json:"marketCapSol"`
	InitialBuy      float64   `json:"initialBuy"`
	Liquidity       float64   `json:"liquidity"`
	Holders         int       `json:"holders"`
	TopHolders      []float64 `json:"topHolders,omitempty"` // percentages, descending
	ContractAgeDays int       `json:"contractAge"`
	PriceVolatility float64   `json:"priceVolatility"` // percentage

	// Metadata is nil when enrichment failed. It is untrusted data fetched
	// off-band from the content URI.
	Metadata *TokenMetadata `json:"metadata,omitempty"`

	DiscoveredAt int64 `json:"discoveredAt"` // Unix timestamp in milliseconds, stamped at flush
}

// Clone returns a deep copy of the record. Stores hand out clones so callers
// never alias store-owned memory.
func (t *TokenRecord) Clone() *TokenRecord {
	cp := *t
	if t.TopHolders != nil {
		cp.TopHolders = make([]float64, len(t.TopHolders))
		copy(cp.TopHolders, t.TopHolders)
	}
	if t.Metadata != nil {
		metaCopy := *t.Metadata
		cp.Metadata = &metaCopy
	}
	return &cp
}

// MetadataField returns the named metadata field, or "" when metadata is
// absent. Used by view filtering: empty metadata never matches a search.
func (t *TokenRecord) MetadataField(field FilterField) string {
	if t.Metadata == nil {
		return ""
	}
	switch field {
	case FilterFieldName:
		return t.Metadata.Name
	case FilterFieldSymbol:
		return t.Metadata.Symbol
	}
	return ""
}
