package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jameshorton2486/transcript-creator-processor/internal/services/batch"
	"github.com/jameshorton2486/transcript-creator-processor/pkg/config"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a single audio file",
	Long: `Transcribe one local audio file and write its artifacts.

The raw transcription is written as a JSON and a plain-text artifact to the
configured transcripts directory. With correction enabled (the default when
an OpenAI key is configured), the corrected transcript is written to the
configured corrected-transcripts directory as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().Bool("no-correction", false, "skip AI transcript correction")
	transcribeCmd.Flags().StringP("output", "o", "", "override the output directory for raw artifacts")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	noCorrection, _ := cmd.Flags().GetBool("no-correction")
	outputOverride, _ := cmd.Flags().GetString("output")

	audioPath := args[0]
	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))

	transcriber := newTranscriptionClient(cfg)
	result, err := transcriber.Transcribe(cmd.Context(), audioPath, transcriptionOptions(cfg))
	if err != nil {
		return err
	}

	transcript := result.Transcript()
	fmt.Fprintf(cmd.OutOrStdout(), "Transcribed %s (confidence %.2f, %d characters)\n",
		filepath.Base(audioPath), result.Confidence(), len(transcript))

	rawDir := cfg.Output.TranscriptsDir
	if outputOverride != "" {
		rawDir = outputOverride
	}

	writer := batch.NewResultWriter()
	jsonPath, textPath, err := writer.WriteRaw(result, rawDir, baseName)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Raw transcript saved: %s, %s\n", jsonPath, textPath)

	if noCorrection {
		return nil
	}

	corrector := newCorrectionClient(cfg)
	if err := corrector.Ready(); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No OpenAI key configured, skipping correction")
		return nil
	}
	if strings.TrimSpace(transcript) == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Empty transcript, skipping correction")
		return nil
	}

	corrected, err := corrector.Correct(cmd.Context(), transcript, correctionOptions(cfg))
	if err != nil {
		return err
	}
	if corrected.ParseError {
		fmt.Fprintln(cmd.OutOrStdout(), "Warning: structured output could not be parsed, kept raw completion")
	}

	correctedDir := cfg.Output.CorrectedDir
	if outputOverride != "" {
		correctedDir = outputOverride
	}
	jsonPath, textPath, err = writer.WriteCorrected(corrected, correctedDir, baseName)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Corrected transcript saved: %s, %s\n", jsonPath, textPath)

	return nil
}
