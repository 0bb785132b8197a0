package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrInvalidConcurrency = errors.New("concurrency must be zero (unbounded) or positive")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
)

// Config is the single configuration value threaded through the collector,
// the scheduler and the probers.
type Config struct {
	Timeout     Duration `json:"timeout"`
	Concurrency int      `json:"concurrency"`
	IgnoreDirs  []string `json:"ignore_dirs"`
	Extensions  []string `json:"extensions"`
	UserAgent   string   `json:"user_agent"`
}

func Default() Config {
	return Config{
		Timeout:     Duration(8 * time.Second),
		Concurrency: 8,
		IgnoreDirs: []string{
			"node_modules", ".git", "dist", "build", ".next", "out", "coverage", "vendor",
		},
		Extensions: []string{
			".md", ".markdown", ".mdx", ".html", ".htm", ".css", ".scss",
			".vue", ".jsx", ".tsx", ".js", ".ts",
		},
		UserAgent: "imgprobe/1.0",
	}
}

func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "imgprobe", "config.json")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", "imgprobe", "config.json")
	}
	return "config.json"
}

// Load reads path on top of Default. A missing file yields the defaults
// when allowMissing is set.
func Load(path string, allowMissing bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config JSON: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// ApplyEnv loads .env from the working directory, if any, and applies
// IMGPROBE_* overrides.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	if value := strings.TrimSpace(os.Getenv("IMGPROBE_TIMEOUT")); value != "" {
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("IMGPROBE_TIMEOUT: %w", err)
		}
		c.Timeout = Duration(d)
	}
	if value := strings.TrimSpace(os.Getenv("IMGPROBE_CONCURRENCY")); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("IMGPROBE_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}
	if value := strings.TrimSpace(os.Getenv("IMGPROBE_IGNORE")); value != "" {
		c.IgnoreDirs = strings.Split(value, ",")
	}
	if value := strings.TrimSpace(os.Getenv("IMGPROBE_USER_AGENT")); value != "" {
		c.UserAgent = value
	}
	c.normalize()
	return nil
}

func (c Config) Validate() error {
	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

func (c *Config) normalize() {
	c.IgnoreDirs = trimAll(c.IgnoreDirs)
	exts := trimAll(c.Extensions)
	for i, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = ext
	}
	c.Extensions = exts
	c.UserAgent = strings.TrimSpace(c.UserAgent)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}

// Duration accepts a Go duration string ("8s") or integer milliseconds in JSON.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		parsed, err := parseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		var ms int64
		if err := json.Unmarshal(trimmed, &ms); err != nil {
			return fmt.Errorf("invalid duration: %s", trimmed)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
}

func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(value)
}
