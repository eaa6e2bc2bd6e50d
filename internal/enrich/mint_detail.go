package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pumpwatch/internal/domain"
)

// MintDetailSource fetches per-mint metadata from the off-band token API,
// used by the detail endpoint when the live record carries no metadata.
type MintDetailSource struct {
	baseURL string
	client  *http.Client
}

// NewMintDetailSource creates a detail source against the given API base URL.
func NewMintDetailSource(baseURL string, timeout time.Duration) *MintDetailSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &MintDetailSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// mintDetailResponse mirrors the API's envelope. Social links arrive as a
// typed extension list rather than flat fields.
type mintDetailResponse struct {
	Result struct {
		Address     string `json:"address"`
		Name        string `json:"name"`
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Image       string `json:"image"`
		Extensions  []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"extensions"`
	} `json:"result"`
}

// Fetch returns metadata for one mint.
func (s *MintDetailSource) Fetch(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	url := fmt.Sprintf("%s/api/get_metadata/%s", s.baseURL, mint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch mint detail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch mint detail: status %d", resp.StatusCode)
	}

	var body mintDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode mint detail: %w", err)
	}

	meta := &domain.TokenMetadata{
		Name:        body.Result.Name,
		Symbol:      body.Result.Symbol,
		Description: body.Result.Description,
		Image:       body.Result.Image,
	}
	for _, ext := range body.Result.Extensions {
		switch ext.Type {
		case "website":
			meta.Website = ext.URL
		case "telegram":
			meta.Telegram = ext.URL
		case "twitter":
			meta.Twitter = ext.URL
		}
	}
	return meta, nil
}
