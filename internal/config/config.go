package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/duty-planner/pkg/core/model"
)

const (
	// DatabaseURLEnv overrides databaseURL from the config file
	DatabaseURLEnv = "DUTY_PLANNER_DATABASE_URL"

	DefaultOutputWorkbook = "Duty_Planner_Combined.xlsx"
	DefaultTimeLimit      = 10 * time.Second
	DefaultMinGapDays     = 4
)

// HolidayRule is a named public holiday recurrence
type HolidayRule struct {
	Name  string `yaml:"name"`
	RRule string `yaml:"rrule" validate:"required"`
}

// SolverConfig bounds the roster search
type SolverConfig struct {
	TimeLimit  time.Duration `yaml:"timeLimit" validate:"gt=0"`
	MinGapDays int           `yaml:"minGapDays" validate:"min=1"`
}

// NotifyConfig emails the published roster through Gmail
type NotifyConfig struct {
	Sender     string   `yaml:"sender" validate:"required,email"`
	Recipients []string `yaml:"recipients" validate:"required,min=1,dive,email"`
}

// Config represents the application configuration
type Config struct {
	// Staff source: a local workbook or a Google spreadsheet, not both
	StaffWorkbook      string             `yaml:"staffWorkbook" validate:"required_without=StaffSpreadsheetID,excluded_with=StaffSpreadsheetID"`
	StaffSheet         string             `yaml:"staffSheet,omitempty"`
	StaffSpreadsheetID string             `yaml:"staffSpreadsheetID,omitempty"`
	StaffRange         string             `yaml:"staffRange,omitempty" validate:"required_with=StaffSpreadsheetID"`
	Columns            model.StaffColumns `yaml:"columns,omitempty"`

	OutputWorkbook      string `yaml:"outputWorkbook,omitempty"`
	OutputSpreadsheetID string `yaml:"outputSpreadsheetID,omitempty"`
	CalendarExport      string `yaml:"calendarExport,omitempty"`

	Notify *NotifyConfig `yaml:"notify,omitempty"`

	Solver SolverConfig `yaml:"solver"`

	Holidays        []HolidayRule `yaml:"holidays,omitempty" validate:"dive"`
	HolidayCalendar string        `yaml:"holidayCalendar,omitempty"`

	CredentialsFile string `yaml:"credentialsFile,omitempty" validate:"required_with=StaffSpreadsheetID OutputSpreadsheetID"`
	DatabaseURL     string `yaml:"databaseURL,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ConfigFileName returns the config file name for an environment
func ConfigFileName(env string) string {
	return fmt.Sprintf("duty_planner_config.%s.yaml", env)
}

// LoadWithEnv loads and validates duty_planner_config.<env>.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(ConfigFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if url, ok := os.LookupEnv(DatabaseURLEnv); ok {
		cfg.DatabaseURL = url
	}

	cfg.ApplyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills every optional setting that was left unset
func (c *Config) ApplyDefaults() {
	c.Columns = c.Columns.WithDefaults()
	if c.OutputWorkbook == "" {
		c.OutputWorkbook = DefaultOutputWorkbook
	}
	if c.Solver.TimeLimit == 0 {
		c.Solver.TimeLimit = DefaultTimeLimit
	}
	if c.Solver.MinGapDays == 0 {
		c.Solver.MinGapDays = DefaultMinGapDays
	}
}

// UsesGoogle reports whether any Google API is needed
func (c *Config) UsesGoogle() bool {
	return c.StaffSpreadsheetID != "" || c.OutputSpreadsheetID != "" || c.Notify != nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Notify != nil && cfg.CredentialsFile == "" {
		return fmt.Errorf("config validation failed: credentialsFile is required to send notifications")
	}

	// Validate rrule syntax for each holiday
	for i, h := range cfg.Holidays {
		if err := checkRRule(h.RRule); err != nil {
			return fmt.Errorf("invalid rrule in holidays[%d] (%s): %w", i, h.Name, err)
		}
	}

	return nil
}

func checkRRule(rule string) error {
	if strings.Contains(strings.ToUpper(rule), "DTSTART:") {
		_, err := rrule.StrToRRuleSet(rule)
		return err
	}
	_, err := rrule.StrToRRule(rule)
	return err
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
