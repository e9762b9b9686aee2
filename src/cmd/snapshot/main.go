package main

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quantstash/expiry-snapshot/src/config"
	"github.com/quantstash/expiry-snapshot/src/instruments"
	"github.com/quantstash/expiry-snapshot/src/models"
	"github.com/quantstash/expiry-snapshot/src/smartapi"
	"github.com/quantstash/expiry-snapshot/src/snapshot"
	"github.com/quantstash/expiry-snapshot/src/telegram"
	"github.com/quantstash/expiry-snapshot/src/utils"
)

type RunArgs struct {
	ConfigFile string
	OutputDir  string
	DryRun     bool
}

var rootCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Download expiry-day option minute candles and deliver them as a zip",
	Run: func(cmd *cobra.Command, args []string) {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		outputDir, err := cmd.Flags().GetString("output-dir")
		if err != nil {
			log.Fatalf("error getting output-dir: %v", err)
		}

		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			log.Fatalf("error getting dry-run: %v", err)
		}

		if err := Run(RunArgs{
			ConfigFile: configFile,
			OutputDir:  outputDir,
			DryRun:     dryRun,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	runID := uuid.NewString()
	log.Infof("starting snapshot run %s", runID)

	profiles, err := config.LoadIndexProfiles(args.ConfigFile)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	var delivery snapshot.Deliverer
	if !args.DryRun {
		telegramCfg, err := config.TelegramFromEnv()
		if err != nil {
			return fmt.Errorf("Run: %w", err)
		}

		delivery = telegram.NewClient(telegram.DefaultBaseURL, telegramCfg.BotToken, telegramCfg.ChatID)
	}

	client := smartapi.NewClient(smartapi.DefaultBaseURL, creds.APIKey)
	if err := client.Login(creds.ClientID, creds.Pin, creds.TOTPSecret); err != nil {
		// without a session no index can be processed
		return fmt.Errorf("Run: %w", err)
	}

	master, err := instruments.FetchMaster(instruments.DefaultMasterURL)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	tally := models.NewRunTally()
	orchestrator := &snapshot.Orchestrator{
		Fetcher:   client,
		Master:    master,
		Profiles:  profiles,
		Delivery:  delivery,
		Retry:     models.DefaultRetryPolicy(),
		Workers:   snapshot.DefaultMaxWorkers,
		Lookback:  snapshot.DefaultLookbackWeeks,
		OutputDir: args.OutputDir,
		DryRun:    args.DryRun,
	}

	orchestrator.Run(utils.NowIST(), tally)

	fmt.Print(tally.String())

	return nil
}

func main() {
	rootCmd.Flags().String("config", "profiles.yaml", "path to the index profile config")
	rootCmd.Flags().String("output-dir", ".", "directory for the local copy of each archive, empty to disable")
	rootCmd.Flags().Bool("dry-run", false, "build and save archives without delivering them")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error executing run command: %v", err)
	}
}
