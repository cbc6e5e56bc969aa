package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// initForTest replicates Init without the once guard so each case starts
// from a clean viper state.
func initForTest(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults()
	viper.SetEnvPrefix("TRANSCRIBER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := validate(); err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	t.Cleanup(viper.Reset)
}

func TestDefaults(t *testing.T) {
	initForTest(t)

	cfg, err := GetConfig()
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}

	if cfg.Deepgram.BaseURL != "https://api.deepgram.com/v1/listen" {
		t.Errorf("unexpected deepgram base URL: %s", cfg.Deepgram.BaseURL)
	}
	if cfg.Deepgram.Model != "nova-2" {
		t.Errorf("expected default model nova-2, got %s", cfg.Deepgram.Model)
	}
	if cfg.Deepgram.Language != "auto" {
		t.Errorf("expected default language auto, got %s", cfg.Deepgram.Language)
	}
	if !cfg.Deepgram.Punctuate || !cfg.Deepgram.SmartFormat {
		t.Error("expected punctuate and smart_format enabled by default")
	}
	if cfg.Deepgram.MaxAttempts != 3 {
		t.Errorf("expected 3 max attempts, got %d", cfg.Deepgram.MaxAttempts)
	}
	if cfg.Deepgram.Backoff != 2*time.Second {
		t.Errorf("expected 2s backoff, got %s", cfg.Deepgram.Backoff)
	}

	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("expected default correction model gpt-4o, got %s", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %f", cfg.OpenAI.Temperature)
	}
	if cfg.OpenAI.MaxRetries != 2 {
		t.Errorf("expected 2 max retries, got %d", cfg.OpenAI.MaxRetries)
	}
	if !cfg.OpenAI.CleanFillerWords {
		t.Error("expected filler word cleaning enabled by default")
	}

	if cfg.Output.BatchDir != "./batch_results" {
		t.Errorf("unexpected batch dir: %s", cfg.Output.BatchDir)
	}
}

func TestEnvironmentOverride(t *testing.T) {
	os.Setenv("TRANSCRIBER_DEEPGRAM_MODEL", "whisper-large")
	os.Setenv("TRANSCRIBER_OPENAI_MAX_TOKENS", "2048")
	defer os.Unsetenv("TRANSCRIBER_DEEPGRAM_MODEL")
	defer os.Unsetenv("TRANSCRIBER_OPENAI_MAX_TOKENS")

	initForTest(t)

	if got := GetString("deepgram.model"); got != "whisper-large" {
		t.Errorf("expected model override whisper-large, got %s", got)
	}
	if got := GetInt("openai.max_tokens"); got != 2048 {
		t.Errorf("expected max_tokens override 2048, got %d", got)
	}
}

func TestValidateAutoCorrects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		set   interface{}
		check func(t *testing.T)
	}{
		{
			name: "alternatives below one reset to one",
			key:  "deepgram.alternatives",
			set:  0,
			check: func(t *testing.T) {
				if got := GetInt("deepgram.alternatives"); got != 1 {
					t.Errorf("expected alternatives corrected to 1, got %d", got)
				}
			},
		},
		{
			name: "max attempts below one reset to three",
			key:  "deepgram.max_attempts",
			set:  -2,
			check: func(t *testing.T) {
				if got := GetInt("deepgram.max_attempts"); got != 3 {
					t.Errorf("expected max_attempts corrected to 3, got %d", got)
				}
			},
		},
		{
			name: "temperature above one clamped",
			key:  "openai.temperature",
			set:  1.7,
			check: func(t *testing.T) {
				if got := GetFloat64("openai.temperature"); got != 1.0 {
					t.Errorf("expected temperature clamped to 1.0, got %f", got)
				}
			},
		},
		{
			name: "negative temperature clamped to zero",
			key:  "openai.temperature",
			set:  -0.5,
			check: func(t *testing.T) {
				if got := GetFloat64("openai.temperature"); got != 0.0 {
					t.Errorf("expected temperature clamped to 0.0, got %f", got)
				}
			},
		},
		{
			name: "negative max retries reset to zero",
			key:  "openai.max_retries",
			set:  -1,
			check: func(t *testing.T) {
				if got := GetInt("openai.max_retries"); got != 0 {
					t.Errorf("expected max_retries corrected to 0, got %d", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			setDefaults()
			viper.Set(tt.key, tt.set)
			if err := validate(); err != nil {
				t.Fatalf("validate() error = %v", err)
			}
			tt.check(t)
			viper.Reset()
		})
	}
}

func TestValidateRejectsEmptyBatchDir(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	setDefaults()
	viper.Set("output.batch_dir", "")

	if err := validate(); err == nil {
		t.Error("expected error for empty batch dir")
	}
}
