package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"sheetview/internal/export"
	"sheetview/internal/util"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	ServerURL        string
	APIPrefix        string
	TimeoutSec       int
	Theme            Theme
	Dataset          string
	SortColumn       string
	SortDesc         bool
	Batch            bool
	ExportFormat     string
	ExportOut        string
	Compression      string
	Offline          bool
	OpenAIModel      string
	OpenAIBase       string
	OpenAITimeoutSec int
	ShowVersion      bool
}

// Load parses os.Args.
func Load() (*Config, error) {
	return Parse(os.Args[1:], os.Stderr)
}

// Parse reads flags from args, using environment variables for defaults.
// Usage and parse errors go to out.
func Parse(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("sheetview", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&cfg.ServerURL, "server", getenvDefault("SHEETVIEW_SERVER", "http://127.0.0.1:8000"), "dataset API base URL")
	fs.StringVar(&cfg.APIPrefix, "api-prefix", "/api", "path prefix of the dataset API")
	fs.IntVar(&cfg.TimeoutSec, "timeout-sec", getenvDefaultInt("SHEETVIEW_TIMEOUT_SEC", 0), "per-request timeout in seconds (0=transport default)")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.StringVar(&cfg.Dataset, "dataset", "", "dataset to open at startup")
	fs.StringVar(&cfg.SortColumn, "sort", "", "column to sort by once the dataset loads")
	fs.BoolVar(&cfg.SortDesc, "desc", false, "sort descending (with --sort)")
	fs.BoolVar(&cfg.Batch, "batch", false, "no TUI: load --dataset, apply --sort, write --export to --out and exit")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export format: "+strings.Join(export.Formats, "|"))
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
	fs.StringVar(&cfg.Compression, "compress", export.CompressionNone, "export compression: "+strings.Join(export.Compressions, "|"))
	fs.BoolVar(&cfg.Offline, "offline", false, "disable OpenAI row explanations")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", getenvDefault("SHEETVIEW_OPENAI_MODEL", "gpt-4o-mini"), "OpenAI model override")
	fs.StringVar(&cfg.OpenAIBase, "openai-base-url", getenvDefault("SHEETVIEW_OPENAI_BASE_URL", ""), "OpenAI base URL override")
	fs.IntVar(&cfg.OpenAITimeoutSec, "openai-timeout-sec", getenvDefaultInt("SHEETVIEW_OPENAI_TIMEOUT_SEC", 60), "OpenAI request timeout in seconds")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)
	if cfg.ShowVersion {
		return cfg, nil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("--theme must be dark or light, got %q", c.Theme)
	}
	if strings.TrimSpace(c.ServerURL) == "" {
		return errors.New("--server is required")
	}
	if c.TimeoutSec < 0 {
		return errors.New("--timeout-sec must be >= 0")
	}
	if c.ExportFormat != "" {
		c.ExportFormat = strings.ToLower(c.ExportFormat)
		if !slices.Contains(export.Formats, c.ExportFormat) {
			return fmt.Errorf("--export must be one of %s", strings.Join(export.Formats, "|"))
		}
		if c.ExportOut == "" {
			return errors.New("--export requires --out path")
		}
	}
	c.Compression = strings.ToLower(c.Compression)
	if !slices.Contains(export.Compressions, c.Compression) {
		return fmt.Errorf("--compress must be one of %s", strings.Join(export.Compressions, "|"))
	}
	if c.SortDesc && c.SortColumn == "" {
		return errors.New("--desc requires --sort")
	}
	if c.Batch {
		if c.Dataset == "" {
			return errors.New("--batch requires --dataset")
		}
		if c.ExportFormat == "" {
			return errors.New("--batch requires --export and --out")
		}
	}
	return nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) OpenAIKey() string { return os.Getenv("OPENAI_API_KEY") }

func (c *Config) String() string {
	return fmt.Sprintf("server=%s prefix=%s dataset=%q theme=%s batch=%v offline=%v", util.RedactURL(c.ServerURL), c.APIPrefix, c.Dataset, c.Theme, c.Batch, c.Offline)
}
