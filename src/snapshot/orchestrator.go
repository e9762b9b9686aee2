package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quantstash/expiry-snapshot/src/instruments"
	"github.com/quantstash/expiry-snapshot/src/models"
)

// Deliverer hands a finalized archive to the downstream messaging endpoint.
// Upload retry is the deliverer's concern.
type Deliverer interface {
	SendDocument(name string, data []byte) error
}

// IndexStatus is the terminal state of one index's processing.
type IndexStatus string

const (
	StatusSkippedNotExpiry   IndexStatus = "skipped_not_expiry"
	StatusSkippedNoRange     IndexStatus = "skipped_range_unavailable"
	StatusSkippedNoContracts IndexStatus = "skipped_no_contracts"
	StatusNoDataProduced     IndexStatus = "no_data_produced"
	StatusArchiveProduced    IndexStatus = "archive_produced"
)

// Orchestrator walks the configured indices sequentially. Every index is best
// effort: a failure in one never blocks its siblings.
type Orchestrator struct {
	Fetcher   CandleFetcher
	Master    []*instruments.MasterRow
	Profiles  []models.IndexProfile
	Delivery  Deliverer
	Retry     models.RetryPolicy
	Workers   int
	Lookback  int
	OutputDir string
	DryRun    bool
}

// Run processes every configured index against "today" and returns the
// terminal status per index.
func (o *Orchestrator) Run(today time.Time, tally *models.RunTally) map[string]IndexStatus {
	statuses := make(map[string]IndexStatus)

	for _, profile := range o.Profiles {
		status, err := o.runIndex(profile, today, tally)
		if err != nil {
			log.Errorf("Orchestrator.Run: error processing %s: %v", profile.Name, err)
			continue
		}

		statuses[profile.Name] = status
	}

	succeeded, failed := tally.Counts()
	log.Infof("run completed, succeeded: %d, failed: %d", succeeded, failed)

	return statuses
}

// runIndex isolates one index. A panic anywhere in the stages degrades to an
// error here so the run can move on to the next index.
func (o *Orchestrator) runIndex(profile models.IndexProfile, today time.Time, tally *models.RunTally) (status IndexStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("runIndex: panic while processing %s: %v", profile.Name, r)
		}
	}()

	log.Infof("processing %s", profile.Name)

	if !instruments.IsExpiryToday(o.Master, profile.Name, today) {
		log.Infof("not %s expiry day, skipping", profile.Name)
		return StatusSkippedNotExpiry, nil
	}

	log.Infof("today is %s expiry day: %s", profile.Name, instruments.FormatExpiry(today))

	summary := FetchHistoricalSummary(o.Fetcher, profile.Token, o.lookbackWeeks(), today)
	if summary == nil {
		log.Errorf("could not calculate strike range for %s", profile.Name)
		return StatusSkippedNoRange, nil
	}

	strikeRange := EstimateStrikeRange(*summary, profile)
	log.Infof("%s strike range: %v (last close %v)", profile.Name, strikeRange, summary.CurrentClose)

	contracts := instruments.OptionContracts(o.Master, profile.Name, today, strikeRange, profile.StrikeStep)
	if len(contracts) == 0 {
		log.Warnf("no option symbols found for %s", profile.Name)
		return StatusSkippedNoContracts, nil
	}

	log.Infof("found %d option symbols for %s", len(contracts), profile.Name)

	archive := NewArchive()
	coordinator := &Coordinator{
		Fetcher: o.Fetcher,
		Retry:   o.Retry,
		Workers: o.Workers,
	}
	coordinator.Run(profile.Name, contracts, ExpiryFetchWindow(today), archive, tally)

	if archive.Len() == 0 {
		log.Warnf("no data downloaded for %s", profile.Name)
		return StatusNoDataProduced, nil
	}

	blob, err := archive.Finalize()
	if err != nil {
		return "", fmt.Errorf("runIndex: failed to finalize archive for %s: %w", profile.Name, err)
	}

	name := fmt.Sprintf("%s_expiry_%s_1min.zip", profile.Name, today.Format("020106"))
	log.Infof("downloaded %d symbols for %s, archive %s (%d bytes)", archive.Len(), profile.Name, name, len(blob))

	if o.OutputDir != "" {
		path := filepath.Join(o.OutputDir, name)
		if err := os.WriteFile(path, blob, 0644); err != nil {
			log.Errorf("failed to save %s locally: %v", path, err)
		} else {
			log.Infof("saved %s locally", path)
		}
	}

	if o.DryRun {
		log.Infof("dry run, skipping delivery of %s", name)
		return StatusArchiveProduced, nil
	}

	if err := o.Delivery.SendDocument(name, blob); err != nil {
		// the archive was produced and saved; delivery failure is logged,
		// never escalated
		log.Errorf("failed to deliver %s: %v", name, err)
	}

	return StatusArchiveProduced, nil
}

func (o *Orchestrator) lookbackWeeks() int {
	if o.Lookback > 0 {
		return o.Lookback
	}

	return DefaultLookbackWeeks
}
