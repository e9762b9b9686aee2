package instruments

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
)

// DefaultMasterURL serves the zipped NFO symbol master.
const DefaultMasterURL = "https://api.shoonya.com/NFO_symbols.txt.zip"

// MasterRow is one raw row of the symbol master. StrikePrice stays a string
// here: the supplier occasionally ships non-numeric values and the filter
// decides what to do with those.
type MasterRow struct {
	Symbol        string `csv:"Symbol"`
	Instrument    string `csv:"Instrument"`
	Expiry        string `csv:"Expiry"`
	StrikePrice   string `csv:"StrikePrice"`
	TradingSymbol string `csv:"TradingSymbol"`
	Token         string `csv:"Token"`
}

// FetchMaster downloads and parses the symbol master. One download per run.
func FetchMaster(url string) ([]*MasterRow, error) {
	client := http.Client{
		Timeout: 60 * time.Second,
	}

	res, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("FetchMaster: failed to download symbol master: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FetchMaster: failed to download symbol master, http code %v", res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("FetchMaster: failed to read response: %w", err)
	}

	rows, err := ParseMaster(body)
	if err != nil {
		return nil, fmt.Errorf("FetchMaster: %w", err)
	}

	log.Infof("symbol master loaded, %d rows", len(rows))

	return rows, nil
}

// ParseMaster unzips the master archive and parses its first entry. Lines
// carry trailing commas that would otherwise confuse the csv reader, so they
// are stripped before parsing.
func ParseMaster(zipped []byte) ([]*MasterRow, error) {
	reader, err := zip.NewReader(bytes.NewReader(zipped), int64(len(zipped)))
	if err != nil {
		return nil, fmt.Errorf("ParseMaster: failed to open zip: %w", err)
	}

	if len(reader.File) == 0 {
		return nil, fmt.Errorf("ParseMaster: zip archive is empty")
	}

	entry, err := reader.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("ParseMaster: failed to open zip entry: %w", err)
	}

	defer entry.Close()

	raw, err := io.ReadAll(entry)
	if err != nil {
		return nil, fmt.Errorf("ParseMaster: failed to read zip entry: %w", err)
	}

	lines := strings.Split(string(raw), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimRight(line, "\r"), ",")
	}
	content := strings.Join(lines, "\n")

	csvReader := csv.NewReader(strings.NewReader(content))
	csvReader.FieldsPerRecord = -1

	var rows []*MasterRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, fmt.Errorf("ParseMaster: failed to unmarshal csv: %w", err)
	}

	return rows, nil
}
