package models

import "fmt"

// IndexProfile is the per-index configuration. Loaded once at startup and
// read-only for the rest of the run.
type IndexProfile struct {
	Name          string
	Token         string
	StrikeStep    float64
	RoundMultiple float64
	Buffer        float64
}

func (p IndexProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("IndexProfile.Validate: missing index name")
	}

	if p.Token == "" {
		return fmt.Errorf("IndexProfile.Validate: %s: missing instrument token", p.Name)
	}

	if p.StrikeStep <= 0 {
		return fmt.Errorf("IndexProfile.Validate: %s: strike step must be positive, got %v", p.Name, p.StrikeStep)
	}

	if p.RoundMultiple <= 0 {
		return fmt.Errorf("IndexProfile.Validate: %s: round multiple must be positive, got %v", p.Name, p.RoundMultiple)
	}

	if p.Buffer < 0 {
		return fmt.Errorf("IndexProfile.Validate: %s: buffer must not be negative, got %v", p.Name, p.Buffer)
	}

	return nil
}

// HistoricalSummary condenses a window of daily candles for one index.
type HistoricalSummary struct {
	MinLow       float64
	MaxHigh      float64
	CurrentClose float64
}

// StrikeRange is a closed interval of strike prices, both ends a multiple of
// the index's rounding granularity. Low is floored at zero.
type StrikeRange struct {
	Low  float64
	High float64
}

func (r StrikeRange) Contains(strike float64) bool {
	return strike >= r.Low && strike <= r.High
}

func (r StrikeRange) String() string {
	return fmt.Sprintf("[%v, %v]", r.Low, r.High)
}
