package domain

// WatchlistEntry is one favorited record. The record is a snapshot taken at
// favoriting time, so the watchlist stays viewable even if the live record
// later changes or the feed never replays it.
type WatchlistEntry struct {
	URI     string      `json:"uri"`
	Record  TokenRecord `json:"record"`
	AddedAt int64       `json:"addedAt"` // Unix timestamp in milliseconds
}
