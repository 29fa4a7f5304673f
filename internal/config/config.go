package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/mini/internal/errors"
	"github.com/vango-dev/mini/pkg/ajax"
	"github.com/vango-dev/mini/pkg/fx"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "mini.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 7070

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where the preview server exposes metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultLogLevel is the default CLI log level.
	DefaultLogLevel = "info"
)

// Config represents mini.json.
type Config struct {
	// Fade configures animations started by the CLI and the preview server.
	Fade FadeConfig `json:"fade"`

	// Ajax configures the fetch command.
	Ajax AjaxConfig `json:"ajax"`

	// Preview configures the preview server.
	Preview PreviewConfig `json:"preview"`

	// Log configures CLI logging.
	Log LogConfig `json:"log"`

	configPath string
}

// FadeConfig contains animation settings.
type FadeConfig struct {
	// Speed is the tick interval, e.g. "25ms".
	Speed string `json:"speed,omitempty"`
}

// AjaxConfig contains request settings.
type AjaxConfig struct {
	// Timeout bounds each request, e.g. "30s".
	Timeout string `json:"timeout,omitempty"`

	// Format is the default response format: text, json or xml.
	Format string `json:"format,omitempty"`
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// MetricsPath is the Prometheus endpoint. Empty disables it.
	MetricsPath string `json:"metricsPath,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// NoColor disables colored output.
	NoColor bool `json:"noColor,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Fade: FadeConfig{
			Speed: fx.DefaultSpeed.String(),
		},
		Ajax: AjaxConfig{
			Timeout: ajax.DefaultTimeout.String(),
			Format:  ajax.Text.String(),
		},
		Preview: PreviewConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			MetricsPath: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load loads mini.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads configuration from path. Fields missing from the file
// keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No " + ConfigFileName + " found at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, decodeError(path, data, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// decodeError points at the offending position when the decoder reports one.
func decodeError(path string, data []byte, err error) error {
	me := errors.New("E122").Wrap(err)

	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case stderrors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset >= 0 {
		line, col := position(data, offset)
		me.WithLocation(path, line, col)
	}
	return me
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return line, col
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the file the configuration was loaded from or saved to.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory of Path.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Fade.Speed == "" {
		c.Fade.Speed = fx.DefaultSpeed.String()
	}
	if c.Ajax.Timeout == "" {
		c.Ajax.Timeout = ajax.DefaultTimeout.String()
	}
	if c.Ajax.Format == "" {
		c.Ajax.Format = ajax.Text.String()
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if _, err := positiveDuration(c.Fade.Speed); err != nil {
		return errors.New("E120").
			WithDetail("fade.speed must be a positive duration such as \"25ms\"").
			Wrap(err)
	}
	if _, err := positiveDuration(c.Ajax.Timeout); err != nil {
		return errors.New("E120").
			WithDetail("ajax.timeout must be a positive duration such as \"30s\"").
			Wrap(err)
	}
	if _, err := ajax.ParseFormat(c.Ajax.Format); err != nil {
		return errors.New("E120").
			WithDetail("ajax.format must be text, json or xml").
			Wrap(err)
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("E120").
			WithDetail("preview.port must be between 0 and 65535")
	}
	if c.Preview.MetricsPath != "" && !strings.HasPrefix(c.Preview.MetricsPath, "/") {
		return errors.New("E120").
			WithDetail("preview.metricsPath must start with '/'")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return errors.New("E120").
			WithDetail("log.level must be debug, info, warn or error").
			Wrap(err)
	}
	return nil
}

func positiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, stderrors.New("duration must be positive")
	}
	return d, nil
}

// FadeSpeed returns the fade interval, or fx.DefaultSpeed when unset or
// invalid.
func (c *Config) FadeSpeed() time.Duration {
	d, err := positiveDuration(c.Fade.Speed)
	if err != nil {
		return fx.DefaultSpeed
	}
	return d
}

// AjaxTimeout returns the request timeout, or ajax.DefaultTimeout when
// unset or invalid.
func (c *Config) AjaxTimeout() time.Duration {
	d, err := positiveDuration(c.Ajax.Timeout)
	if err != nil {
		return ajax.DefaultTimeout
	}
	return d
}

// AjaxFormat returns the default response format.
func (c *Config) AjaxFormat() ajax.Format {
	f, _ := ajax.ParseFormat(c.Ajax.Format)
	return f
}

// PreviewAddress returns host:port for the preview server.
func (c *Config) PreviewAddress() string {
	return net.JoinHostPort(c.Preview.Host, strconv.Itoa(c.Preview.Port))
}

// PreviewURL returns the preview server's base URL.
func (c *Config) PreviewURL() string {
	return "http://" + c.PreviewAddress()
}

// LogLevel returns the configured slog level, or info when invalid.
func (c *Config) LogLevel() slog.Level {
	l, err := ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.TrimSpace(s)))
	return l, err
}

// Exists reports whether dir contains mini.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the first directory holding
// mini.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E121").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// Resolve loads path when set, otherwise the nearest mini.json above the
// working directory, otherwise the defaults.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return New(), nil
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}
	return Load(root)
}
