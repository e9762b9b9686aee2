package models

import "time"

type Interval string

const (
	IntervalOneDay    Interval = "ONE_DAY"
	IntervalOneMinute Interval = "ONE_MINUTE"
)

// Candle is a single bar from the history API. Timestamps are normalized to
// naive IST wall time before the candle reaches anything downstream, so a
// series never mixes offsets.
type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

type CandleDTO struct {
	Date   string  `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume int64   `csv:"Volume"`
}

const candleDateLayout = "2006-01-02 15:04:05"

func (c Candle) ToDTO() *CandleDTO {
	return &CandleDTO{
		Date:   c.Date.Format(candleDateLayout),
		Open:   c.Open,
		High:   c.High,
		Low:    c.Low,
		Close:  c.Close,
		Volume: c.Volume,
	}
}

func CandlesToDTOs(candles []Candle) []*CandleDTO {
	out := make([]*CandleDTO, 0, len(candles))
	for _, c := range candles {
		out = append(out, c.ToDTO())
	}
	return out
}
