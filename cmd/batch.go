package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jameshorton2486/transcript-creator-processor/internal/services/batch"
	"github.com/jameshorton2486/transcript-creator-processor/pkg/config"
)

// audioExtensions lists the file types picked up by --dir scanning
var audioExtensions = []string{".mp3", ".wav", ".flac", ".m4a", ".ogg", ".aac"}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [audio-files...]",
	Short: "Transcribe a batch of audio files",
	Long: `Process multiple audio files sequentially through transcription and
optional correction.

Files are taken from the arguments, from --dir (scanned for common audio
extensions), or both. Results land in a timestamped directory under the
configured batch root, with raw_transcripts/ and corrected_transcripts/
subdirectories and a batch_summary.txt.

A failing file is recorded and skipped; the rest of the batch continues.
Interrupt (Ctrl-C) stops the batch at the next file boundary.`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("dir", "d", "", "directory to scan for audio files")
	batchCmd.Flags().Bool("no-correction", false, "skip AI transcript correction")
	batchCmd.Flags().StringP("output", "o", "", "override the batch results root directory")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	noCorrection, _ := cmd.Flags().GetBool("no-correction")
	outputOverride, _ := cmd.Flags().GetString("output")

	files, err := collectAudioFiles(args, dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no audio files to process; pass file arguments or --dir")
	}

	doCorrection := !noCorrection
	corrector := newCorrectionClient(cfg)
	if doCorrection {
		if err := corrector.Ready(); err != nil {
			return fmt.Errorf("correction requires an OpenAI API key; set openai.api_key or OPENAI_API_KEY, or pass --no-correction to transcribe only")
		}
	}

	resultsRoot := cfg.Output.BatchDir
	if outputOverride != "" {
		resultsRoot = outputOverride
	}

	orchestrator := batch.NewOrchestrator(batch.OrchestratorConfig{
		Transcriber:       newTranscriptionClient(cfg),
		Corrector:         corrector,
		TranscriptionOpts: transcriptionOptions(cfg),
		CorrectionOpts:    correctionOptions(cfg),
		ResultsRoot:       resultsRoot,
	})

	// stop at the next file boundary on interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(cmd.OutOrStdout(), "Interrupt received, finishing current file...")
		orchestrator.Cancel()
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processing %d files\n", len(files))

	job, err := orchestrator.Run(cmd.Context(), files, doCorrection, func(index, total int, name string) {
		fmt.Fprintf(out, "[%d/%d] %s\n", index, total, name)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nBatch %s. Processed %d/%d files, %d errors.\n",
		orchestrator.Status(), job.Processed, len(job.Files), job.Errors)
	for _, outcome := range job.Outcomes {
		if outcome.Status != "success" {
			fmt.Fprintf(out, "  failed: %s (%s)\n", outcome.File, outcome.Reason)
		}
	}
	fmt.Fprintf(out, "Results saved in %s\n", job.OutputDir)

	return nil
}

// collectAudioFiles merges explicit arguments with a directory scan,
// deduplicating and keeping a deterministic order.
func collectAudioFiles(args []string, dir string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		add(arg)
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("cannot scan directory %s: %w", dir, err)
		}
		var scanned []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			for _, want := range audioExtensions {
				if ext == want {
					scanned = append(scanned, filepath.Join(dir, entry.Name()))
					break
				}
			}
		}
		sort.Strings(scanned)
		for _, path := range scanned {
			add(path)
		}
	}

	return files, nil
}
