package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Audio    AudioConfig    `yaml:"audio"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Marks    MarksConfig    `yaml:"marks"`
	Whisper  WhisperConfig  `yaml:"whisper"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Export   ExportConfig   `yaml:"export"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MaxUploadMB int `yaml:"max_upload_mb"`
}

type AudioConfig struct {
	ChunkSeconds int `yaml:"chunk_seconds"`
	SampleRate   int `yaml:"sample_rate"`
}

type PipelineConfig struct {
	BatchSize          int `yaml:"batch_size"`
	BatchDelaySeconds  int `yaml:"batch_delay_seconds"`
	WordThreshold      int `yaml:"word_threshold"`
	ChunkWords         int `yaml:"chunk_words"`
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
}

type MarksConfig struct {
	MaxCount int   `yaml:"max_count"`
	Min      int   `yaml:"min"`
	Max      int   `yaml:"max"`
	Defaults []int `yaml:"defaults"`
}

type WhisperConfig struct {
	URL      string `yaml:"url"`
	Language string `yaml:"language"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type WatchConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML config file, applies defaults and validates it.
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
	if c.Whisper.URL == "" {
		return fmt.Errorf("whisper.url is required")
	}
	if c.Watch.Enabled && c.Watch.Dir == "" {
		return fmt.Errorf("watch.dir is required when watch.enabled is set")
	}
	if c.Marks.MaxCount != 0 && len(c.Marks.Defaults) > c.Marks.MaxCount {
		return fmt.Errorf("marks.defaults exceeds marks.max_count")
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 50
	}
	if c.Audio.ChunkSeconds == 0 {
		c.Audio.ChunkSeconds = 180
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Pipeline.BatchSize == 0 {
		c.Pipeline.BatchSize = 5
	}
	if c.Pipeline.BatchDelaySeconds == 0 {
		c.Pipeline.BatchDelaySeconds = 1
	}
	if c.Pipeline.WordThreshold == 0 {
		c.Pipeline.WordThreshold = 1000
	}
	if c.Pipeline.ChunkWords == 0 {
		c.Pipeline.ChunkWords = 600
	}
	// Chunk sizes outside 500-800 words hurt mini-summary quality.
	if c.Pipeline.ChunkWords < 500 {
		c.Pipeline.ChunkWords = 500
	}
	if c.Pipeline.ChunkWords > 800 {
		c.Pipeline.ChunkWords = 800
	}
	if c.Pipeline.CallTimeoutSeconds == 0 {
		c.Pipeline.CallTimeoutSeconds = 120
	}
	if c.Marks.MaxCount == 0 {
		c.Marks.MaxCount = 2
	}
	if c.Marks.Min == 0 {
		c.Marks.Min = 2
	}
	if c.Marks.Max == 0 {
		c.Marks.Max = 20
	}
	if len(c.Marks.Defaults) == 0 {
		c.Marks.Defaults = []int{2, 5}
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Watch.MaxConcurrent == 0 {
		c.Watch.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
