package domain

// RiskLevel is the coarse classification derived from the summed risk factors.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskProfile is the derived risk assessment for one record. It is recomputed
// on every read and never stored on the record.
type RiskProfile struct {
	Percentage int            `json:"percentage"` // clamped to [10, 95]
	Level      RiskLevel      `json:"level"`
	Factors    map[string]int `json:"factors"`
}
