package models

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
)

const maxFailedSymbolsShown = 10

type FailedContract struct {
	TradingSymbol string
	Reason        string
}

type indexCounts struct {
	succeeded int
	failed    int
}

// RunTally accumulates per-contract results across concurrent workers. All
// mutation goes through the locked methods; the accessors return copies.
type RunTally struct {
	mu        sync.Mutex
	succeeded []string
	failed    []FailedContract
	byIndex   map[string]*indexCounts
}

func NewRunTally() *RunTally {
	return &RunTally{
		byIndex: make(map[string]*indexCounts),
	}
}

func (t *RunTally) AddSuccess(index string, tradingSymbol string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.succeeded = append(t.succeeded, tradingSymbol)
	t.counts(index).succeeded++
}

func (t *RunTally) AddFailure(index string, tradingSymbol string, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failed = append(t.failed, FailedContract{TradingSymbol: tradingSymbol, Reason: reason})
	t.counts(index).failed++
}

// counts must be called with the lock held.
func (t *RunTally) counts(index string) *indexCounts {
	c, ok := t.byIndex[index]
	if !ok {
		c = &indexCounts{}
		t.byIndex[index] = c
	}

	return c
}

func (t *RunTally) Succeeded() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.succeeded))
	copy(out, t.succeeded)
	return out
}

func (t *RunTally) Failed() []FailedContract {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]FailedContract, len(t.failed))
	copy(out, t.failed)
	return out
}

func (t *RunTally) Counts() (succeeded int, failed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.succeeded), len(t.failed)
}

// String renders the per-index breakdown plus a truncated list of failed
// symbols. Advisory only.
func (t *RunTally) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	display := &strings.Builder{}
	display.WriteString("Run Summary:\n")

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Index", "Succeeded", "Failed"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	var indexes []string
	for name := range t.byIndex {
		indexes = append(indexes, name)
	}
	sort.Strings(indexes)

	for _, name := range indexes {
		c := t.byIndex[name]
		table.Append([]string{name, fmt.Sprintf("%d", c.succeeded), fmt.Sprintf("%d", c.failed)})
	}
	table.Append([]string{"TOTAL", fmt.Sprintf("%d", len(t.succeeded)), fmt.Sprintf("%d", len(t.failed))})

	table.Render()

	if len(t.failed) > 0 {
		shown := len(t.failed)
		if shown > maxFailedSymbolsShown {
			shown = maxFailedSymbolsShown
		}

		var symbols []string
		for _, f := range t.failed[:shown] {
			symbols = append(symbols, f.TradingSymbol)
		}

		display.WriteString(fmt.Sprintf("Failed symbols: %s", strings.Join(symbols, ", ")))
		if rest := len(t.failed) - shown; rest > 0 {
			display.WriteString(fmt.Sprintf(" ... and %d more", rest))
		}
		display.WriteString("\n")
	}

	return display.String()
}
