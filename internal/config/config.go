package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reqshape/reqshape/pkg/params"
	"github.com/reqshape/reqshape/pkg/requestid"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type LoggingConfig struct {
	// AccessLog defaults to true; set it to false explicitly to disable.
	AccessLog             *bool  `yaml:"access_log"`
	AccessLogPath         string `yaml:"access_log_path"`
	AccessLogFormat       string `yaml:"access_log_format"`
	AccessLogFormatPreset string `yaml:"access_log_format_preset"`
	// Color is one of auto, always, never.
	Color string `yaml:"color"`
}

func (c LoggingConfig) AccessLogEnabled() bool {
	return c.AccessLog == nil || *c.AccessLog
}

type ParamsConfig struct {
	// Aliases and Types replace the built-in tables when set. An explicit
	// empty map disables the table.
	Aliases map[string]string `yaml:"aliases"`
	Types   map[string]string `yaml:"types"`
	// TablesFile is an optional yaml file with aliases/types sections that
	// take precedence over the inline tables.
	TablesFile string `yaml:"tables_file"`
	// AutoReload watches TablesFile and swaps the tables at runtime.
	AutoReload struct {
		Enabled    bool `yaml:"enabled"`
		DebounceMs int  `yaml:"debounce_ms"`
	} `yaml:"auto_reload"`
}

type Config struct {
	Server struct {
		Listen         string `yaml:"listen"`
		ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
		WriteTimeoutMs int    `yaml:"write_timeout_ms"`
		MaxBodyBytes   int64  `yaml:"max_body_bytes"`
		// H2C serves cleartext HTTP/2 next to HTTP/1.1.
		H2C bool `yaml:"h2c"`
		// AdminKey guards the /admin routes; empty leaves them open.
		AdminKey string `yaml:"admin_key"`
	} `yaml:"server"`

	Params ParamsConfig `yaml:"params"`

	RequestID struct {
		HeaderKey string `yaml:"header_key"`
		Format    string `yaml:"format"`
	} `yaml:"request_id"`

	Logging LoggingConfig `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a yaml document and applies defaults, environment overrides
// and validation, like Load.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":3310"
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 30000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 30000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 8 << 20
	}
	if cfg.Params.Aliases == nil {
		cfg.Params.Aliases = params.DefaultAliasNames()
	}
	if cfg.Params.Types == nil {
		cfg.Params.Types = params.DefaultTypeNames()
	}
	if cfg.Params.AutoReload.DebounceMs <= 0 {
		cfg.Params.AutoReload.DebounceMs = 300
	}
	cfg.RequestID.HeaderKey = requestid.ResolveHeaderKey(cfg.RequestID.HeaderKey)
	if strings.TrimSpace(cfg.RequestID.Format) == "" {
		cfg.RequestID.Format = requestid.FormatUUID
	}
	if strings.TrimSpace(cfg.Logging.Color) == "" {
		cfg.Logging.Color = ColorAuto
	}
}

func applyEnvOverrides(cfg *Config) {
	applyEnvServerOverrides(cfg)
	applyEnvParamsOverrides(cfg)
	applyAliasEnvOverrides(cfg)
	applyEnvLoggingOverrides(cfg)
}

func applyEnvServerOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if n, ok := envInt("REQSHAPE_READ_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.ReadTimeoutMs = n
	}
	if n, ok := envInt("REQSHAPE_WRITE_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.WriteTimeoutMs = n
	}
	if n, ok := envInt("REQSHAPE_MAX_BODY_BYTES"); ok {
		cfg.Server.MaxBodyBytes = int64(n)
	}
	cfg.Server.H2C = envBool("REQSHAPE_H2C", cfg.Server.H2C)
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_ADMIN_KEY")); v != "" {
		cfg.Server.AdminKey = v
	}
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_REQUEST_ID_HEADER")); v != "" {
		cfg.RequestID.HeaderKey = v
	}
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_REQUEST_ID_FORMAT")); v != "" {
		cfg.RequestID.Format = v
	}
}

func applyEnvParamsOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_TABLES_FILE")); v != "" {
		cfg.Params.TablesFile = v
	}
	cfg.Params.AutoReload.Enabled = envBool("REQSHAPE_TABLES_AUTO_RELOAD_ENABLED", cfg.Params.AutoReload.Enabled)
	if n, ok := envInt("REQSHAPE_TABLES_AUTO_RELOAD_DEBOUNCE_MS"); ok {
		cfg.Params.AutoReload.DebounceMs = n
	}
}

func applyEnvLoggingOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_ACCESS_LOG")); v != "" {
		on := envBool("REQSHAPE_ACCESS_LOG", cfg.Logging.AccessLogEnabled())
		cfg.Logging.AccessLog = &on
	}
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_ACCESS_LOG_PATH")); v != "" {
		cfg.Logging.AccessLogPath = v
	}
	if v := os.Getenv("REQSHAPE_ACCESS_LOG_FORMAT"); strings.TrimSpace(v) != "" {
		cfg.Logging.AccessLogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_ACCESS_LOG_FORMAT_PRESET")); v != "" {
		cfg.Logging.AccessLogFormatPreset = v
	}
	if v := strings.TrimSpace(os.Getenv("REQSHAPE_LOG_COLOR")); v != "" {
		cfg.Logging.Color = v
	}
}

var envAliasPattern = regexp.MustCompile(`^REQSHAPE_ALIAS_([A-Z0-9_]+)$`)

// applyAliasEnvOverrides maps REQSHAPE_ALIAS_<FIELD>=<target> onto
// params.aliases. An empty value removes the alias.
func applyAliasEnvOverrides(cfg *Config) {
	if cfg.Params.Aliases == nil {
		cfg.Params.Aliases = map[string]string{}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m := envAliasPattern.FindStringSubmatch(strings.TrimSpace(k))
		if m == nil {
			continue
		}
		field := strings.ToLower(m[1])
		v = strings.TrimSpace(v)
		if v == "" {
			delete(cfg.Params.Aliases, field)
			continue
		}
		cfg.Params.Aliases[field] = v
	}
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func validate(cfg *Config) error {
	if cfg.Server.MaxBodyBytes < 0 {
		return errors.New("server.max_body_bytes must be non-negative")
	}
	for field, target := range cfg.Params.Aliases {
		if strings.TrimSpace(field) == "" || strings.TrimSpace(target) == "" {
			return errors.New("params.aliases entries must have non-empty names")
		}
	}
	if _, err := params.NewTables(cfg.Params.Aliases, cfg.Params.Types); err != nil {
		return fmt.Errorf("params.types: %w", err)
	}
	if cfg.Params.AutoReload.Enabled {
		if strings.TrimSpace(cfg.Params.TablesFile) == "" {
			return errors.New("params.tables_file is required when params.auto_reload.enabled=true")
		}
		if cfg.Params.AutoReload.DebounceMs <= 0 {
			return errors.New("params.auto_reload.debounce_ms must be > 0 when params.auto_reload.enabled=true")
		}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.RequestID.Format)) {
	case requestid.FormatUUID, requestid.FormatIdentifier:
	default:
		return fmt.Errorf("request_id.format must be %q or %q", requestid.FormatUUID, requestid.FormatIdentifier)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Color)) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("logging.color must be one of auto, always, never (got %q)", cfg.Logging.Color)
	}
	return nil
}
