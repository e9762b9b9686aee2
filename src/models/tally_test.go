package models

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunTally(t *testing.T) {
	t.Run("concurrent updates are not lost", func(t *testing.T) {
		tally := NewRunTally()

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				if i%4 == 0 {
					tally.AddFailure("BANKNIFTY", fmt.Sprintf("SYM%d", i), "no data")
				} else {
					tally.AddSuccess("BANKNIFTY", fmt.Sprintf("SYM%d", i))
				}
			}(i)
		}
		wg.Wait()

		succeeded, failed := tally.Counts()
		assert.Equal(t, 75, succeeded)
		assert.Equal(t, 25, failed)
		assert.Equal(t, 100, succeeded+failed)
	})

	t.Run("accessors return copies", func(t *testing.T) {
		tally := NewRunTally()
		tally.AddSuccess("FINNIFTY", "FINNIFTY28AUG26C19500")

		succeeded := tally.Succeeded()
		succeeded[0] = "mutated"

		assert.Equal(t, []string{"FINNIFTY28AUG26C19500"}, tally.Succeeded())
	})

	t.Run("summary truncates failed symbols", func(t *testing.T) {
		tally := NewRunTally()
		for i := 0; i < 12; i++ {
			tally.AddFailure("MIDCPNIFTY", fmt.Sprintf("SYM%d", i), "no data")
		}

		out := tally.String()
		assert.Contains(t, out, "SYM9")
		assert.NotContains(t, out, "SYM10")
		assert.Contains(t, out, "... and 2 more")
	})

	t.Run("summary reports per index counts", func(t *testing.T) {
		tally := NewRunTally()
		tally.AddSuccess("BANKNIFTY", "A")
		tally.AddSuccess("BANKNIFTY", "B")
		tally.AddFailure("FINNIFTY", "C", "no data")

		out := tally.String()
		assert.Contains(t, out, "BANKNIFTY")
		assert.Contains(t, out, "FINNIFTY")
		assert.Contains(t, out, "TOTAL")
	})
}
