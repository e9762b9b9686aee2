package instruments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantstash/expiry-snapshot/src/models"
	"github.com/quantstash/expiry-snapshot/src/utils"
)

func masterFixture() []*MasterRow {
	return []*MasterRow{
		{Symbol: "BANKNIFTY", Instrument: "OPTIDX", Expiry: "28-AUG-2026", StrikePrice: "49100", TradingSymbol: "BANKNIFTY28AUG26C49100", Token: "101"},
		{Symbol: "BANKNIFTY", Instrument: "OPTIDX", Expiry: "28-AUG-2026", StrikePrice: "52900", TradingSymbol: "BANKNIFTY28AUG26P52900", Token: "102"},
		// outside range
		{Symbol: "BANKNIFTY", Instrument: "OPTIDX", Expiry: "28-AUG-2026", StrikePrice: "53000", TradingSymbol: "BANKNIFTY28AUG26C53000", Token: "103"},
		// off the strike grid
		{Symbol: "BANKNIFTY", Instrument: "OPTIDX", Expiry: "28-AUG-2026", StrikePrice: "49150", TradingSymbol: "BANKNIFTY28AUG26C49150", Token: "104"},
		// different expiry
		{Symbol: "BANKNIFTY", Instrument: "OPTIDX", Expiry: "04-SEP-2026", StrikePrice: "50000", TradingSymbol: "BANKNIFTY04SEP26C50000", Token: "105"},
		// wrong instrument class
		{Symbol: "BANKNIFTY", Instrument: "FUTIDX", Expiry: "28-AUG-2026", StrikePrice: "0", TradingSymbol: "BANKNIFTY26AUGFUT", Token: "106"},
		// different index
		{Symbol: "FINNIFTY", Instrument: "OPTIDX", Expiry: "28-AUG-2026", StrikePrice: "50000", TradingSymbol: "FINNIFTY28AUG26C50000", Token: "107"},
		// unparsable strike
		{Symbol: "BANKNIFTY", Instrument: "OPTIDX", Expiry: "28-AUG-2026", StrikePrice: "XX", TradingSymbol: "BANKNIFTY28AUG26C_BAD", Token: "108"},
	}
}

func TestIsExpiryToday(t *testing.T) {
	rows := masterFixture()
	expiry := time.Date(2026, 8, 28, 10, 0, 0, 0, utils.IST)

	t.Run("expiry day", func(t *testing.T) {
		assert.True(t, IsExpiryToday(rows, "BANKNIFTY", expiry))
	})

	t.Run("not expiry day", func(t *testing.T) {
		assert.False(t, IsExpiryToday(rows, "BANKNIFTY", expiry.AddDate(0, 0, 1)))
	})

	t.Run("unknown index", func(t *testing.T) {
		assert.False(t, IsExpiryToday(rows, "MIDCPNIFTY", expiry))
	})
}

func TestOptionContracts(t *testing.T) {
	rows := masterFixture()
	expiry := time.Date(2026, 8, 28, 0, 0, 0, 0, utils.IST)
	strikeRange := models.StrikeRange{Low: 49100, High: 52900}

	contracts := OptionContracts(rows, "BANKNIFTY", expiry, strikeRange, 100)
	require.Len(t, contracts, 2)

	var symbols []string
	for _, c := range contracts {
		symbols = append(symbols, c.TradingSymbol)

		assert.Equal(t, "28-AUG-2026", c.Expiry)
		assert.True(t, strikeRange.Contains(c.StrikePrice))
		assert.True(t, utils.IsMultipleOf(c.StrikePrice, 100))
	}

	assert.ElementsMatch(t, []string{"BANKNIFTY28AUG26C49100", "BANKNIFTY28AUG26P52900"}, symbols)
}

func TestOptionContractsEmptyResult(t *testing.T) {
	rows := masterFixture()
	expiry := time.Date(2026, 8, 28, 0, 0, 0, 0, utils.IST)

	// a range below every listed strike matches nothing, which is valid
	contracts := OptionContracts(rows, "BANKNIFTY", expiry, models.StrikeRange{Low: 0, High: 100}, 100)
	assert.Empty(t, contracts)
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "28-AUG-2026", FormatExpiry(time.Date(2026, 8, 28, 0, 0, 0, 0, utils.IST)))
	assert.Equal(t, "04-SEP-2026", FormatExpiry(time.Date(2026, 9, 4, 0, 0, 0, 0, utils.IST)))
}
