package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths         PathsConfig         `yaml:"paths"`
	FFmpeg        FFmpegConfig        `yaml:"ffmpeg"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Trends        TrendsConfig        `yaml:"trends"`
	Titles        TitlesConfig        `yaml:"titles"`
	Database      DatabaseConfig      `yaml:"database"`
	Report        ReportConfig        `yaml:"report"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Work     string `yaml:"work"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type FFmpegConfig struct {
	BinaryPath      string `yaml:"binary_path"`
	ProbePath       string `yaml:"probe_path"`
	AudioBitrate    string `yaml:"audio_bitrate"`
	SampleRate      int    `yaml:"sample_rate"`
	BaseTimeoutSec  int    `yaml:"base_timeout_seconds"`
	TimeoutPerGBSec int    `yaml:"timeout_per_gb_seconds"`
	MaxTimeoutSec   int    `yaml:"max_timeout_seconds"`
}

type TranscriptionConfig struct {
	BaseURL            string `yaml:"base_url"`
	APIKey             string `yaml:"api_key"`
	Model              string `yaml:"model"`
	Language           string `yaml:"language"`
	MaxPayloadMB       int    `yaml:"max_payload_mb"`
	TargetChunkSec     int    `yaml:"target_chunk_seconds"`
	ContextOverlapSec  int    `yaml:"context_overlap_seconds"`
	ContextHintChars   int    `yaml:"context_hint_chars"`
	MaxRetries         int    `yaml:"max_retries"`
	RequestTimeoutSec  int    `yaml:"request_timeout_seconds"`
	RequestsPerMinute  int    `yaml:"requests_per_minute"`
	ChunkCutTimeoutSec int    `yaml:"chunk_cut_timeout_seconds"`
}

type TrendsConfig struct {
	CacheTTLSec      int           `yaml:"cache_ttl_seconds"`
	SourceTimeoutSec int           `yaml:"source_timeout_seconds"`
	Category         string        `yaml:"category"`
	MaxKeywords      int           `yaml:"max_keywords"`
	Google           GoogleTrends  `yaml:"google"`
	YouTube          YouTubeTrends `yaml:"youtube"`
	Reddit           RedditTrends  `yaml:"reddit"`
}

type GoogleTrends struct {
	Geo string `yaml:"geo"`
}

type YouTubeTrends struct {
	APIKey string `yaml:"api_key"`
	Region string `yaml:"region"`
}

type RedditTrends struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	UserAgent    string `yaml:"user_agent"`
}

type TitlesConfig struct {
	APIKeys   []string `yaml:"api_keys"`
	Model     string   `yaml:"model"`
	NumTitles int      `yaml:"num_titles"`
	Platform  string   `yaml:"platform"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// PipelineConfig holds per-step wall-clock budgets for the orchestrator.
type PipelineConfig struct {
	ExtractTimeoutSec    int `yaml:"extract_timeout_seconds"`
	TranscribeTimeoutSec int `yaml:"transcribe_timeout_seconds"`
	TrendsTimeoutSec     int `yaml:"trends_timeout_seconds"`
	GenerateTimeoutSec   int `yaml:"generate_timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads and validates the YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Transcription.APIKey == "" {
		return fmt.Errorf("transcription.api_key is required")
	}

	if c.Paths.Work == "" {
		c.Paths.Work = "data/work"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "32k"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.BaseTimeoutSec == 0 {
		c.FFmpeg.BaseTimeoutSec = 300
	}
	if c.FFmpeg.TimeoutPerGBSec == 0 {
		c.FFmpeg.TimeoutPerGBSec = 180
	}
	if c.FFmpeg.MaxTimeoutSec == 0 {
		c.FFmpeg.MaxTimeoutSec = 3600
	}

	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-large-v3-turbo"
	}
	if c.Transcription.MaxPayloadMB == 0 {
		c.Transcription.MaxPayloadMB = 25
	}
	if c.Transcription.TargetChunkSec == 0 {
		c.Transcription.TargetChunkSec = 600
	}
	if c.Transcription.ContextOverlapSec == 0 {
		c.Transcription.ContextOverlapSec = 30
	}
	if c.Transcription.ContextHintChars == 0 {
		c.Transcription.ContextHintChars = 200
	}
	if c.Transcription.MaxRetries == 0 {
		c.Transcription.MaxRetries = 3
	}
	if c.Transcription.RequestTimeoutSec == 0 {
		c.Transcription.RequestTimeoutSec = 120
	}
	if c.Transcription.RequestsPerMinute == 0 {
		c.Transcription.RequestsPerMinute = 20
	}
	if c.Transcription.ChunkCutTimeoutSec == 0 {
		c.Transcription.ChunkCutTimeoutSec = 120
	}

	if c.Trends.CacheTTLSec == 0 {
		c.Trends.CacheTTLSec = 3600
	}
	if c.Trends.SourceTimeoutSec == 0 {
		c.Trends.SourceTimeoutSec = 15
	}
	if c.Trends.MaxKeywords == 0 {
		c.Trends.MaxKeywords = 30
	}
	if c.Trends.Google.Geo == "" {
		c.Trends.Google.Geo = "US"
	}
	if c.Trends.YouTube.Region == "" {
		c.Trends.YouTube.Region = "US"
	}
	if c.Trends.Reddit.UserAgent == "" {
		c.Trends.Reddit.UserAgent = "title-flow/1.0"
	}

	if c.Titles.Model == "" {
		c.Titles.Model = "gemini-2.5-flash"
	}
	if c.Titles.NumTitles == 0 {
		c.Titles.NumTitles = 5
	}
	if c.Titles.Platform == "" {
		c.Titles.Platform = "general"
	}

	if c.Database.Path == "" {
		c.Database.Path = "data/title-flow.db"
	}
	if c.Report.Dir == "" {
		c.Report.Dir = c.Paths.Output
	}

	if c.Pipeline.ExtractTimeoutSec == 0 {
		c.Pipeline.ExtractTimeoutSec = 3600
	}
	if c.Pipeline.TranscribeTimeoutSec == 0 {
		c.Pipeline.TranscribeTimeoutSec = 3600
	}
	if c.Pipeline.TrendsTimeoutSec == 0 {
		c.Pipeline.TrendsTimeoutSec = 60
	}
	if c.Pipeline.GenerateTimeoutSec == 0 {
		c.Pipeline.GenerateTimeoutSec = 300
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
