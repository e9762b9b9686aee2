package utils

import "time"

// IST is the reference time zone for everything in this pipeline: expiry-day
// checks, request windows, and candle normalization.
var IST = time.FixedZone("IST", 5*3600+30*60)

func NowIST() time.Time {
	return time.Now().In(IST)
}
