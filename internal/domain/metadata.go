package domain

// TokenMetadata holds descriptive fields fetched from a token's content URI.
// Every field is optional; the document is external and may be malformed or
// missing entirely.
type TokenMetadata struct {
	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
}
