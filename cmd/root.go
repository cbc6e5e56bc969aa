package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jameshorton2486/transcript-creator-processor/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcript-processor",
	Short: "Audio transcription and transcript correction toolkit",
	Long: `Transcript Processor - local audio transcription and correction

Transcribes local audio files through the Deepgram speech-to-text API,
optionally corrects the transcripts with an OpenAI model, and writes
paired JSON and plain-text artifacts.

Features:
  • Single-file and batch transcription
  • Automatic language detection, diarization, redaction
  • AI transcript correction with structured output and topic extraction
  • Deterministic artifact layout with per-run batch directories`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Set up configuration loading with lazy initialization
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it
// This is called lazily only when a command that needs config runs
func loadConfig() {
	// Skip config loading for commands that don't need it
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
