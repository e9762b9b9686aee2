package smartapi

import (
	"fmt"
	"time"

	"github.com/quantstash/expiry-snapshot/src/models"
	"github.com/quantstash/expiry-snapshot/src/utils"
)

// Candles converts the provider's raw rows into candle records. Every
// timestamp is normalized to IST wall time so one series never mixes offsets.
// Any malformed row fails the whole conversion: a partially decoded series
// would silently corrupt the archive.
func (r CandleResponse) Candles() ([]models.Candle, error) {
	candles := make([]models.Candle, 0, len(r.Rows))

	for i, row := range r.Rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("Candles: row %d has %d fields, want 6", i, len(row))
		}

		timestamp, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("Candles: row %d has non-string timestamp %v", i, row[0])
		}

		date, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("Candles: row %d has unparsable timestamp: %w", i, err)
		}

		values := make([]float64, 5)
		for j := 1; j < 6; j++ {
			v, ok := row[j].(float64)
			if !ok {
				return nil, fmt.Errorf("Candles: row %d has non-numeric field %d: %v", i, j, row[j])
			}
			values[j-1] = v
		}

		candles = append(candles, models.Candle{
			Date:   date.In(utils.IST),
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: int64(values[4]),
		})
	}

	return candles, nil
}
