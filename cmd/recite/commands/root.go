package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	recite "github.com/ieee0824/recite-go"
	"github.com/ieee0824/recite-go/config"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	globalConfig  *config.Config
	configLoadErr error
)

var rootCmd = &cobra.Command{
	Use:   "recite",
	Short: "Deterministic recitation scoring engine",
	Long: `recite - compare recitations by their acoustic features.

Audio is framed, windowed and reduced to MFCC plus scalar features.
Two feature sequences are compared with dynamic time warping, and
quantized sequences can be decoded with a discrete HMM.

Examples:
  # Save the features of a reference recording
  recite features reference.wav -o reference.msgpack

  # Compare an attempt against the reference
  recite align reference.msgpack attempt.wav

  # Decode symbols with a model file
  recite decode --model model.yaml --obs 0,1,1,2`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. An interrupt cancels the running
// command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "engine config file (YAML, default: built-in settings)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(streamCmd)
}

func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if cfgFile == "" {
		globalConfig = config.Default()
		return
	}
	globalConfig, configLoadErr = config.Load(cfgFile)
}

// getConfig returns the engine configuration.
func getConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		return config.Default(), nil
	}
	return globalConfig, nil
}

// newScorer builds a Scorer from the engine configuration.
func newScorer() (*recite.Scorer, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	fc, err := cfg.FeatureConfig()
	if err != nil {
		return nil, err
	}
	ao, err := cfg.AlignOptions()
	if err != nil {
		return nil, err
	}
	mo, err := cfg.MatrixOptions()
	if err != nil {
		return nil, err
	}
	return recite.New(
		recite.WithFeatureConfig(fc),
		recite.WithAlignOptions(ao),
		recite.WithMatrixOptions(mo),
		recite.WithLogger(slog.Default()),
	)
}
