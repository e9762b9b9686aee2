package snapshot

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/quantstash/expiry-snapshot/src/models"
)

// Archive accumulates one CSV entry per downloaded contract and finalizes
// into a single zip blob. Entry insertion is safe for concurrent workers; the
// lock covers only the append, never a network call.
type Archive struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	writer  *zip.Writer
	entries int
	closed  bool
}

func NewArchive() *Archive {
	a := &Archive{}
	a.writer = zip.NewWriter(&a.buf)
	return a
}

func (a *Archive) AddEntry(name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return fmt.Errorf("AddEntry: archive already finalized")
	}

	entry, err := a.writer.Create(name)
	if err != nil {
		return fmt.Errorf("AddEntry: failed to create %s: %w", name, err)
	}

	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("AddEntry: failed to write %s: %w", name, err)
	}

	a.entries++

	return nil
}

func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.entries
}

// Finalize closes the zip and hands the blob over. The archive must not be
// written to afterwards.
func (a *Archive) Finalize() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, fmt.Errorf("Finalize: archive already finalized")
	}

	a.closed = true

	if err := a.writer.Close(); err != nil {
		return nil, fmt.Errorf("Finalize: failed to close zip: %w", err)
	}

	return a.buf.Bytes(), nil
}

// serializeCandles renders one contract's series as CSV with the
// Date,Open,High,Low,Close,Volume header.
func serializeCandles(candles []models.Candle) ([]byte, error) {
	data, err := gocsv.MarshalBytes(models.CandlesToDTOs(candles))
	if err != nil {
		return nil, fmt.Errorf("serializeCandles: %w", err)
	}

	return data, nil
}
