package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Browser engines understood by the browser package.
const (
	EngineRod        = "rod"
	EnginePlaywright = "playwright"
)

// ScraperConfig holds general browser settings shared by both phases.
type ScraperConfig struct {
	Engine          string        `yaml:"engine"`
	Headless        bool          `yaml:"headless"`
	Stealth         bool          `yaml:"stealth"`
	DownloadDir     string        `yaml:"download_dir"`
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
}

// CatalogConfig describes the paginated listing the links are collected from.
type CatalogConfig struct {
	StartURL    string        `yaml:"start_url"`
	CardClass   string        `yaml:"card_class"`
	NextClass   string        `yaml:"next_class"`
	LoaderClass string        `yaml:"loader_class"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
	// MaxPages stops pagination after that many pages. Zero means no limit.
	MaxPages int `yaml:"max_pages"`
}

// DownloaderConfig describes the single-field form every link is submitted to.
type DownloaderConfig struct {
	EntryURL        string        `yaml:"entry_url"`
	InputSelector   string        `yaml:"input_selector"`
	SubmitXPath     string        `yaml:"submit_xpath"`
	SuccessLinkText string        `yaml:"success_link_text"`
	WaitTimeout     time.Duration `yaml:"wait_timeout"`
	MaxAttempts     int           `yaml:"max_attempts"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
}

// ReportConfig points at the SQLite file submission outcomes are written to.
// An empty Database disables the report.
type ReportConfig struct {
	Database string `yaml:"database"`
}

// ServerConfig is used by the report API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Scraper    ScraperConfig    `yaml:"scraper"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Downloader DownloaderConfig `yaml:"downloader"`
	Report     ReportConfig     `yaml:"report"`
	Server     ServerConfig     `yaml:"server"`
}

// Default returns the configuration for the Rekhta couplets catalog and the
// rekhtadownload.com form.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Engine:          EngineRod,
			Headless:        false,
			Stealth:         true,
			DownloadDir:     "downloads",
			NavigateTimeout: 60 * time.Second,
		},
		Catalog: CatalogConfig{
			StartURL:    "https://www.rekhta.org/ebooks/category/poetry/couplets#",
			CardClass:   "ebookCard",
			NextClass:   "pgNext",
			LoaderClass: "pageLoader",
			WaitTimeout: 5 * time.Second,
		},
		Downloader: DownloaderConfig{
			EntryURL:        "https://www.rekhtadownload.com/",
			InputSelector:   "input[type='text']",
			SubmitXPath:     "//*[@id='frontend-app']/div/div[1]/div/div[3]/div/div[1]/div[1]/button",
			SuccessLinkText: "Download Another",
			WaitTimeout:     3 * time.Minute,
			MaxAttempts:     3,
			RetryDelay:      2 * time.Second,
		},
		Report: ReportConfig{
			Database: "downloads.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadConfig reads filepath over the defaults. A missing file leaves the
// defaults untouched.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config YAML: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first setting that would make a run meaningless.
func (c *Config) Validate() error {
	switch {
	case c.Scraper.Engine != EngineRod && c.Scraper.Engine != EnginePlaywright:
		return fmt.Errorf("scraper.engine must be %q or %q, got %q", EngineRod, EnginePlaywright, c.Scraper.Engine)
	case c.Catalog.StartURL == "":
		return errors.New("catalog.start_url is required")
	case c.Catalog.CardClass == "" || c.Catalog.NextClass == "":
		return errors.New("catalog.card_class and catalog.next_class are required")
	case c.Catalog.WaitTimeout <= 0:
		return errors.New("catalog.wait_timeout must be positive")
	case c.Catalog.MaxPages < 0:
		return errors.New("catalog.max_pages must not be negative")
	case c.Downloader.EntryURL == "":
		return errors.New("downloader.entry_url is required")
	case c.Downloader.InputSelector == "" || c.Downloader.SubmitXPath == "" || c.Downloader.SuccessLinkText == "":
		return errors.New("downloader.input_selector, submit_xpath and success_link_text are required")
	case c.Downloader.WaitTimeout <= 0:
		return errors.New("downloader.wait_timeout must be positive")
	case c.Downloader.MaxAttempts < 1:
		return fmt.Errorf("downloader.max_attempts must be at least 1, got %d", c.Downloader.MaxAttempts)
	case c.Downloader.RetryDelay < 0:
		return errors.New("downloader.retry_delay must not be negative")
	}
	return nil
}
