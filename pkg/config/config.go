package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// Set default values
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("TRANSCRIBER")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		// Try to read the config file
		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
			// Config file doesn't exist, which is fine - we'll use defaults
		}

		// Validate the configuration
		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float64 config value
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	// Auto-correct out-of-range recognition values
	if viper.GetInt("deepgram.alternatives") < 1 {
		viper.Set("deepgram.alternatives", 1)
	}
	if viper.GetInt("deepgram.max_attempts") < 1 {
		viper.Set("deepgram.max_attempts", 3)
	}

	// Temperature is clamped, not rejected
	temp := viper.GetFloat64("openai.temperature")
	if temp < 0 {
		viper.Set("openai.temperature", 0.0)
	} else if temp > 1 {
		viper.Set("openai.temperature", 1.0)
	}

	if viper.GetInt("openai.max_retries") < 0 {
		viper.Set("openai.max_retries", 0)
	}

	if viper.GetString("output.batch_dir") == "" {
		return fmt.Errorf("output.batch_dir must not be empty")
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Speech-to-text defaults
	viper.SetDefault("deepgram.api_key", "")
	viper.SetDefault("deepgram.base_url", "https://api.deepgram.com/v1/listen")
	viper.SetDefault("deepgram.timeout", 5*time.Minute)
	viper.SetDefault("deepgram.max_attempts", 3)
	viper.SetDefault("deepgram.backoff", 2*time.Second)
	viper.SetDefault("deepgram.requests_per_second", 0.0)

	viper.SetDefault("deepgram.model", "nova-2")
	viper.SetDefault("deepgram.language", "auto")
	viper.SetDefault("deepgram.punctuate", true)
	viper.SetDefault("deepgram.diarize", false)
	viper.SetDefault("deepgram.smart_format", true)
	viper.SetDefault("deepgram.summarize", false)
	viper.SetDefault("deepgram.detect_topics", false)
	viper.SetDefault("deepgram.utterances", false)
	viper.SetDefault("deepgram.profanity_filter", false)
	viper.SetDefault("deepgram.redact", "")
	viper.SetDefault("deepgram.alternatives", 1)

	// Correction defaults
	viper.SetDefault("openai.api_key", "")
	viper.SetDefault("openai.base_url", "")
	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.temperature", 0.2)
	viper.SetDefault("openai.max_retries", 2)
	viper.SetDefault("openai.max_tokens", 4096)
	viper.SetDefault("openai.format_output", false)
	viper.SetDefault("openai.extract_speakers", false)
	viper.SetDefault("openai.extract_topics", false)
	viper.SetDefault("openai.clean_filler_words", true)
	viper.SetDefault("openai.rate_limit_backoff", 5*time.Second)
	viper.SetDefault("openai.transient_backoff", 2*time.Second)

	// Output defaults
	viper.SetDefault("output.transcripts_dir", "./transcripts")
	viper.SetDefault("output.corrected_dir", "./corrected_transcripts")
	viper.SetDefault("output.batch_dir", "./batch_results")
}
