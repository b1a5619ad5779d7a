package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	AppDirName        = "cmdshell"

	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	Color  string `json:"color" validate:"oneof=always auto never"`
	Banner bool   `json:"banner"`
	Prompt string `json:"prompt" validate:"required"`

	HistoryFile  string `json:"history_file"`
	HistoryLimit int    `json:"history_limit" validate:"gte=-1"`
	CommandLog   string `json:"command_log"`
	AppLog       string `json:"app_log"`

	DrainTimeout string `json:"drain_timeout" validate:"required"`
	KillGrace    string `json:"kill_grace" validate:"required"`

	PathExtensions []string `json:"path_extensions" validate:"dive,startswith=."`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.DrainTimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.KillGraceDuration(); err != nil {
		return err
	}
	return nil
}

// DrainTimeoutDuration parses DrainTimeout.
func (c *Configuration) DrainTimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration("drain_timeout", c.DrainTimeout)
}

// KillGraceDuration parses KillGrace.
func (c *Configuration) KillGraceDuration() (time.Duration, error) {
	return parsePositiveDuration("kill_grace", c.KillGrace)
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", field, value)
	}
	return d, nil
}

// Dir returns the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewBasePathFs(afero.NewOsFs(), c.configurationDir)
	}
	return c.configFs
}

// HistoryPath returns the absolute path of the line editing history, empty if
// history isn't saved.
func (c *Configuration) HistoryPath() string {
	if c.HistoryFile == "" {
		return ""
	}
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	return filepath.Join(c.configurationDir, c.HistoryFile)
}

// ShouldColor decides whether to use color given whether output is a
// terminal.
func (c *Configuration) ShouldColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	if c.AppLog == "" {
		return nil, fmt.Errorf("app log disabled: %w", os.ErrNotExist)
	}
	return c.fs().OpenFile(c.AppLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// OpenCommandLog opens the command log in an append only state.
func (c *Configuration) OpenCommandLog() (afero.File, error) {
	if c.CommandLog == "" {
		return nil, fmt.Errorf("command log disabled: %w", os.ErrNotExist)
	}
	return c.fs().OpenFile(c.CommandLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadCommandLog opens the command log for reading.
func (c *Configuration) ReadCommandLog() (afero.File, error) {
	if c.CommandLog == "" {
		return nil, fmt.Errorf("command log disabled: %w", os.ErrNotExist)
	}
	return c.fs().OpenFile(c.CommandLog, os.O_RDONLY, 0600)
}

// DefaultConfigData returns the contents of the default config.yaml.
func DefaultConfigData() []byte {
	return append([]byte(nil), defaultConfigData...)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
