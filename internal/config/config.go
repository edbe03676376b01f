package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"        validate:"required"`
	Auth          AuthConfig          `mapstructure:"auth"          validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Transcription TranscriptionConfig `mapstructure:"transcription" validate:"required"`
	Worker        WorkerConfig        `mapstructure:"worker"        validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig contains the submission boundary's authentication settings.
// Intake routes compare the X-API-Key header against this key.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key" validate:"required,min=8"`
}

// DatabaseConfig contains the persistence collaborator's settings.
// An empty URL switches action item storage to the in-memory store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty"`
}

// LLMConfig contains the Gemini integration settings. An empty API key
// disables the structured extraction and remote transcription strategies;
// the pipeline then runs on its local fallbacks only.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// TranscriptionConfig contains the transcription resolver settings.
type TranscriptionConfig struct {
	// LocalEnabled turns the local command strategy on or off.
	LocalEnabled bool `mapstructure:"local_enabled"`

	// Command is the transcription command line; the audio path is appended
	// as the last argument. Empty skips the local strategy.
	Command string `mapstructure:"command"`

	// OutputDir is where the command may write transcript files instead of
	// printing to stdout.
	OutputDir string `mapstructure:"output_dir"`

	// UploadDir is where uploaded audio artifacts are staged until the
	// worker releases them.
	UploadDir string `mapstructure:"upload_dir" validate:"required"`
}

// WorkerConfig contains the worker loop settings.
type WorkerConfig struct {
	// TickIntervalMS is the fixed interval between queue checks, in
	// milliseconds. At most one job is processed per tick.
	TickIntervalMS int `mapstructure:"tick_interval_ms" validate:"required,gt=0"`
}

// TickInterval returns the worker tick as a duration.
func (w WorkerConfig) TickInterval() time.Duration {
	return time.Duration(w.TickIntervalMS) * time.Millisecond
}
