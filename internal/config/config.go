package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatConsole = "console"
	LogFormatText    = "text"
	LogFormatJSON    = "json"

	// Files already in the destination directory are archived too.
	ArchiveModeDirectory = "directory"
	// Only files downloaded by the current run are archived.
	ArchiveModeRun = "run"

	envPrefix = "ANEXOFETCH_"
	envFile   = ".env"
)

type ReportConfig struct {
	Enabled  bool   `yaml:"enabled"`
	FileName string `yaml:"file_name" default:"report.html" validate:"required"`
}

type Config struct {
	SourceURL   string        `yaml:"source_url" default:"https://www.gov.br/ans/pt-br/acesso-a-informacao/participacao-da-sociedade/atualizacao-do-rol-de-procedimentos" validate:"required,url"`
	BaseOrigin  string        `yaml:"base_origin" validate:"omitempty,url"`
	DestDir     string        `yaml:"dest_dir" default:"data" validate:"required"`
	ArchiveName string        `yaml:"archive_name" default:"anexos.zip" validate:"required"`
	Labels      []string      `yaml:"labels" default:"[\"Anexo I\",\"Anexo II\"]" validate:"required,min=1,dive,required"`
	Extension   string        `yaml:"extension" default:".pdf" validate:"required"`
	Workers     int           `yaml:"workers" default:"1" validate:"min=1,max=32"`
	ChunkSize   int           `yaml:"chunk_size" default:"1024" validate:"min=1"`
	RateLimit   int64         `yaml:"rate_limit" validate:"min=0"`
	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"min=0"`
	UserAgent   string        `yaml:"user_agent" default:"anexofetch/1.0"`
	ArchiveMode string        `yaml:"archive_mode" default:"directory" validate:"oneof=directory run"`
	Report      ReportConfig  `yaml:"report"`
	LogLevel    string        `yaml:"log_level" default:"info" validate:"oneof=debug info warn error"`
	LogFormat   string        `yaml:"log_format" default:"console" validate:"oneof=console text json"`
}

// SetDefaults fills every zero field from its default tag.
func (c *Config) SetDefaults() {
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("cannot set config defaults: %s", err))
	}
}

func (c *Config) ArchivePath() string {
	return filepath.Join(c.DestDir, c.ArchiveName)
}

func (c *Config) ReportPath() string {
	return filepath.Join(c.DestDir, c.Report.FileName)
}

// Origin returns the scheme and host used to resolve site-relative links.
func (c *Config) Origin() string {
	if c.BaseOrigin != "" {
		return c.BaseOrigin
	}

	u, err := url.Parse(c.SourceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Load reads the YAML file at path and applies environment overrides and
// defaults. The result is not validated: callers apply their own overrides
// and then call Validate. A missing file is an error only when required is
// true.
func Load(path string, required bool) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load %s: %w", envFile, err)
	}

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.SetDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SOURCE_URL":   &c.SourceURL,
		"BASE_ORIGIN":  &c.BaseOrigin,
		"DEST_DIR":     &c.DestDir,
		"ARCHIVE_MODE": &c.ArchiveMode,
		"LOG_LEVEL":    &c.LogLevel,
		"LOG_FORMAT":   &c.LogFormat,
	}

	for name, dst := range strs {
		if val, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = val
		}
	}

	if val, ok := os.LookupEnv(envPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("cannot parse %sWORKERS: %w", envPrefix, err)
		}

		c.Workers = n
	}

	return nil
}
