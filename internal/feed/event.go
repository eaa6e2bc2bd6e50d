package feed

import (
	"encoding/json"
	"errors"

	"github.com/mr-tron/base58"

	"pumpwatch/internal/domain"
)

// ErrMalformedEvent is returned when an inbound message cannot become a
// record. Such events are dropped; no record is created.
var ErrMalformedEvent = errors.New("malformed feed event")

// newTokenEvent mirrors the wire shape of one feed message. Only uri is
// required; pointer fields distinguish absent from zero so defaults can be
// applied.
type newTokenEvent struct {
	URI             string    `json:"uri"`
	Mint            string    `json:"mint"`
	MarketCapSol    *float64  `json:"marketCapSol"`
	InitialBuy      *float64  `json:"initialBuy"`
	Liquidity       *float64  `json:"liquidity"`
	Holders         *int      `json:"holders"`
	TopHolders      []float64 `json:"topHolders"`
	ContractAge     *int      `json:"contractAge"`
	PriceVolatility *float64  `json:"priceVolatility"`
}

// decodeEvent parses one raw feed message into a record skeleton, filling
// absent mock-market fields from the defaults generator. Returns
// ErrMalformedEvent for unparsable messages or a missing uri.
func decodeEvent(raw []byte, defaults *Defaults) (*domain.TokenRecord, error) {
	var ev newTokenEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, ErrMalformedEvent
	}
	if ev.URI == "" {
		return nil, ErrMalformedEvent
	}

	rec := &domain.TokenRecord{
		URI:  ev.URI,
		Mint: validMint(ev.Mint),
	}

	if ev.MarketCapSol != nil {
		rec.MarketCapSol = *ev.MarketCapSol
	}
	if ev.InitialBuy != nil {
		rec.InitialBuy = *ev.InitialBuy
	}

	if ev.Liquidity != nil {
		rec.Liquidity = *ev.Liquidity
	} else {
		rec.Liquidity = defaults.Liquidity()
	}
	if ev.Holders != nil {
		rec.Holders = *ev.Holders
	} else {
		rec.Holders = defaults.Holders()
	}
	if ev.TopHolders != nil {
		rec.TopHolders = ev.TopHolders
	} else {
		rec.TopHolders = defaults.TopHolders()
	}
	if ev.ContractAge != nil {
		rec.ContractAgeDays = *ev.ContractAge
	} else {
		rec.ContractAgeDays = defaults.ContractAgeDays()
	}
	if ev.PriceVolatility != nil {
		rec.PriceVolatility = *ev.PriceVolatility
	} else {
		rec.PriceVolatility = defaults.PriceVolatility()
	}

	return rec, nil
}

// validMint returns the mint when it decodes as a 32-byte base58 address,
// "" otherwise. An invalid mint does not drop the event; the record simply
// never gets a price series.
func validMint(mint string) string {
	if mint == "" {
		return ""
	}
	decoded, err := base58.Decode(mint)
	if err != nil || len(decoded) != 32 {
		return ""
	}
	return mint
}
