package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jameshorton2486/transcript-creator-processor/pkg/config"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and environment",
	Long: `Verify that the tool is ready to run: API keys are resolvable,
output directories are writable, and configured options are sane.

No network calls are made.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	problems := 0

	check := func(ok bool, okMsg, failMsg string) {
		if ok {
			fmt.Fprintf(out, "  ok   %s\n", okMsg)
		} else {
			fmt.Fprintf(out, "  FAIL %s\n", failMsg)
			problems++
		}
	}

	fmt.Fprintln(out, "API keys:")
	deepgramKey := cfg.Deepgram.APIKey
	if deepgramKey == "" {
		deepgramKey = os.Getenv("DEEPGRAM_API_KEY")
	}
	check(deepgramKey != "",
		"Deepgram API key configured",
		"Deepgram API key missing (set deepgram.api_key or DEEPGRAM_API_KEY)")

	openaiKey := cfg.OpenAI.APIKey
	if openaiKey == "" {
		openaiKey = os.Getenv("OPENAI_API_KEY")
	}
	check(openaiKey != "",
		"OpenAI API key configured",
		"OpenAI API key missing, correction unavailable (set openai.api_key or OPENAI_API_KEY)")

	fmt.Fprintln(out, "Output directories:")
	for _, dir := range []string{cfg.Output.TranscriptsDir, cfg.Output.CorrectedDir, cfg.Output.BatchDir} {
		check(dirWritable(dir),
			fmt.Sprintf("%s is writable", dir),
			fmt.Sprintf("%s is not writable", dir))
	}

	fmt.Fprintln(out, "Options:")
	check(cfg.Deepgram.Model != "", "transcription model set", "transcription model is empty")
	check(cfg.OpenAI.Model != "", "correction model set", "correction model is empty")

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	fmt.Fprintln(out, "All checks passed")
	return nil
}

// dirWritable reports whether the directory exists (or can be created)
// and accepts a new file.
func dirWritable(dir string) bool {
	if dir == "" {
		return false
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}
