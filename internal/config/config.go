package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RasterConfig controls how input pages are decoded.
type RasterConfig struct {
	// DPI is the render resolution for PDF pages.
	DPI int `yaml:"dpi"`
}

// OCRConfig selects and tunes the OCR engine.
type OCRConfig struct {
	// Engine is one of "tesseract", "hocr" or "documentai".
	Engine string `yaml:"engine"`
	// Language is the tesseract language list, e.g. "fra+eng".
	Language string `yaml:"language"`
	// HOCRPath is an explicit hOCR file for the "hocr" engine. When empty the
	// engine looks for "<input>.hocr" next to the scanned file.
	HOCRPath string `yaml:"hocr_path,omitempty"`
}

// DocumentAIConfig holds Google Document AI processor settings.
type DocumentAIConfig struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
	// Credentials is a service account file. Empty falls back to
	// GOOGLE_APPLICATION_CREDENTIALS.
	Credentials string `yaml:"credentials,omitempty"`
}

// MergeConfig holds the fragment merge thresholds in pixels.
type MergeConfig struct {
	LineX int `yaml:"line_x"`
	LineY int `yaml:"line_y"`
	AreaX int `yaml:"area_x"`
	AreaY int `yaml:"area_y"`
}

// ScheduleConfig holds date resolution settings.
type ScheduleConfig struct {
	// Year is combined with the day and month read from weekday headers.
	Year int `yaml:"year"`
}

// CalendarConfig holds Google Calendar and iCalendar export settings.
type CalendarConfig struct {
	// ID is the target Google calendar, usually the account address.
	ID string `yaml:"id"`
	// Name is written as the iCalendar calendar name.
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
	// Credentials is the OAuth client file downloaded from the Cloud console.
	Credentials string `yaml:"credentials"`
	// Token caches the authorized user token.
	Token string `yaml:"token"`
	// RepeatWeeks repeats exported events weekly this many times in total.
	// 0 and 1 both mean a single occurrence.
	RepeatWeeks int `yaml:"repeat_weeks"`
}

// WatchConfig drives the scheduled inbox scan.
type WatchConfig struct {
	Inbox  string `yaml:"inbox"`
	Outbox string `yaml:"outbox"`
	// Schedule is a standard 5-field cron expression.
	Schedule string `yaml:"schedule"`
}

// Config is the top-level application configuration.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Raster     RasterConfig     `yaml:"raster"`
	OCR        OCRConfig        `yaml:"ocr"`
	DocumentAI DocumentAIConfig `yaml:"documentai"`
	Merge      MergeConfig      `yaml:"merge"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Watch      WatchConfig      `yaml:"watch"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero values with defaults so partial files behave.
func (c *Config) Normalize() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Raster.DPI <= 0 {
		c.Raster.DPI = 300
	}

	c.OCR.Engine = strings.ToLower(strings.TrimSpace(c.OCR.Engine))
	if c.OCR.Engine == "" {
		c.OCR.Engine = "tesseract"
	}
	if c.OCR.Language == "" {
		c.OCR.Language = "fra+eng"
	}
	if c.DocumentAI.Location == "" {
		c.DocumentAI.Location = "eu"
	}

	if c.Merge.LineX <= 0 {
		c.Merge.LineX = 300
	}
	if c.Merge.LineY <= 0 {
		c.Merge.LineY = 50
	}
	if c.Merge.AreaX <= 0 {
		c.Merge.AreaX = 150
	}
	if c.Merge.AreaY <= 0 {
		c.Merge.AreaY = 75
	}

	if c.Schedule.Year <= 0 {
		c.Schedule.Year = 2026
	}

	if c.Calendar.ID == "" {
		c.Calendar.ID = "primary"
	}
	if c.Calendar.Name == "" {
		c.Calendar.Name = "Planning"
	}
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = "Europe/Paris"
	}
	if c.Calendar.Credentials == "" {
		c.Calendar.Credentials = "credentials.json"
	}
	if c.Calendar.Token == "" {
		c.Calendar.Token = "token.json"
	}
	if c.Calendar.RepeatWeeks < 0 {
		c.Calendar.RepeatWeeks = 0
	}

	if c.Watch.Inbox == "" {
		c.Watch.Inbox = "inbox"
	}
	if c.Watch.Outbox == "" {
		c.Watch.Outbox = "outbox"
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = "*/5 * * * *"
	}
}

// Validate reports settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.OCR.Engine {
	case "tesseract", "hocr":
	case "documentai":
		if c.DocumentAI.ProjectID == "" || c.DocumentAI.ProcessorID == "" {
			return errors.New("documentai engine requires project_id and processor_id")
		}
	default:
		return fmt.Errorf("unknown OCR engine %q", c.OCR.Engine)
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// A missing file is created with the default configuration (0600) and the
// defaults are returned. An existing file is read and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically through a temp file and rename.
// The parent directory is created with 0700 and the file ends up 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".planscan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
