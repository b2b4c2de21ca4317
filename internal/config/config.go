package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	// ServerURL is the inference backend base URL; /predict is appended.
	ServerURL string `json:"server_url"`

	Capture CaptureConfig `json:"capture"`
	Audio   AudioConfig   `json:"audio"`
	Client  ClientConfig  `json:"client"`

	LogLevel string `json:"log_level"` // "debug", "info", "warn", "error"
}

type CaptureConfig struct {
	IntervalMs int `json:"interval_ms"` // orchestrator tick cadence

	// FrameEdge is the square resolution frames are scaled to before upload.
	// The backend accepts any size; this trades bandwidth against detail.
	FrameEdge   int `json:"frame_edge"`
	JPEGQuality int `json:"jpeg_quality"`
}

type AudioConfig struct {
	DeviceID          string `json:"device_id"` // empty = fallback ladder
	SampleRate        int    `json:"sample_rate"`
	SegmentDurationMs int    `json:"segment_duration_ms"`
}

type ClientConfig struct {
	DialTimeoutMs    int `json:"dial_timeout_ms"`
	HeaderTimeoutMs  int `json:"header_timeout_ms"`
	RequestTimeoutMs int `json:"request_timeout_ms"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	// Default config
	cfg := &Config{
		ServerURL: "http://127.0.0.1:7860",
		Capture: CaptureConfig{
			IntervalMs:  1000,
			FrameEdge:   512,
			JPEGQuality: 80,
		},
		Audio: AudioConfig{
			DeviceID:          "",
			SampleRate:        44100,
			SegmentDurationMs: 3000,
		},
		Client: ClientConfig{
			DialTimeoutMs:    3000,
			HeaderTimeoutMs:  5000,
			RequestTimeoutMs: 10000,
		},
		LogLevel: "info",
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url must not be empty")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server_url %q is not an absolute URL", c.ServerURL)
	}
	if c.Capture.IntervalMs <= 0 {
		return fmt.Errorf("capture.interval_ms must be positive, got %d", c.Capture.IntervalMs)
	}
	if c.Capture.FrameEdge <= 0 {
		return fmt.Errorf("capture.frame_edge must be positive, got %d", c.Capture.FrameEdge)
	}
	if c.Capture.JPEGQuality < 1 || c.Capture.JPEGQuality > 100 {
		return fmt.Errorf("capture.jpeg_quality must be in [1,100], got %d", c.Capture.JPEGQuality)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.SegmentDurationMs <= 0 {
		return fmt.Errorf("audio.segment_duration_ms must be positive, got %d", c.Audio.SegmentDurationMs)
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "deepfake-agent", "config.json")
}
