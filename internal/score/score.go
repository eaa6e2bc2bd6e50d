// Package score computes the derived quality score and risk profile for a
// token record. All functions are pure and deterministic; results are
// recomputed on every read and never cached on the record, so a live field
// update can never leave a stale score observable.
package score

import "pumpwatch/internal/domain"

// Quality score bounds and the cap applied when market cap is low.
const (
	minScore     = 0
	maxScore     = 10
	lowCapScore  = 7
	socialBonus  = 3
	marketCapMin = 10 // SOL threshold for the +1 market cap bonus
)

// Risk factor names, keyed into RiskProfile.Factors.
const (
	FactorLiquidity     = "liquidity"
	FactorConcentration = "holderConcentration"
	FactorVolatility    = "volatility"
	FactorContractAge   = "contractAge"
	FactorSocial        = "social"
)

// Quality returns the heuristic quality score in [0, 10].
// Each present social link adds 3. A market cap of at least 10 SOL adds 1;
// below that threshold the running total is capped at 7 first, so social
// links alone can never push a low-cap token past 7.
func Quality(t *domain.TokenRecord) int {
	total := 0
	if t.Metadata != nil {
		if t.Metadata.Website != "" {
			total += socialBonus
		}
		if t.Metadata.Telegram != "" {
			total += socialBonus
		}
		if t.Metadata.Twitter != "" {
			total += socialBonus
		}
	}

	if t.MarketCapSol >= marketCapMin {
		total++
	} else if total > lowCapScore {
		total = lowCapScore
	}

	return clampInt(total, minScore, maxScore)
}

// Risk returns the derived risk profile. Zero-valued market fields count as
// missing, which is the pessimistic reading for every factor.
func Risk(t *domain.TokenRecord) domain.RiskProfile {
	factors := map[string]int{
		FactorLiquidity:     liquidityRisk(t),
		FactorConcentration: concentrationRisk(t),
		FactorVolatility:    volatilityRisk(t),
		FactorContractAge:   contractAgeRisk(t),
		FactorSocial:        socialRisk(t),
	}

	total := 0
	for _, v := range factors {
		total += v
	}

	level := domain.RiskLow
	switch {
	case total > 5:
		level = domain.RiskHigh
	case total > 3:
		level = domain.RiskMedium
	}

	return domain.RiskProfile{
		Percentage: clampInt(total*10, 10, 95),
		Level:      level,
		Factors:    factors,
	}
}

func liquidityRisk(t *domain.TokenRecord) int {
	if t.Liquidity < 50 {
		return 3
	}
	return 1
}

func concentrationRisk(t *domain.TokenRecord) int {
	sum := 0.0
	for i, pct := range t.TopHolders {
		if i == 3 {
			break
		}
		sum += pct
	}
	if sum > 60 {
		return 2
	}
	return 0
}

func volatilityRisk(t *domain.TokenRecord) int {
	if t.PriceVolatility > 15 {
		return 2
	}
	return 0
}

func contractAgeRisk(t *domain.TokenRecord) int {
	if t.ContractAgeDays < 3 {
		return 1
	}
	return 0
}

func socialRisk(t *domain.TokenRecord) int {
	if t.Metadata == nil || t.Metadata.Telegram == "" || t.Metadata.Twitter == "" {
		return 1
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
