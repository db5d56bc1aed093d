package runtime

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/il2cpp-runtime/errors"
)

// Defaults used for unset Config fields.
const (
	DefaultLibrary     = "GameAssembly"
	DefaultObfuscated  = "savedSecretNameNoEnc.txt"
	DefaultTrue        = "savedSecretName.txt"
	DefaultFingerprint = "savedGAhash.txt"
)

// Names locates the two name lists of the export name map.
type Names struct {
	// Obfuscated lists the export names callers request.
	Obfuscated string `yaml:"obfuscated"`
	// True lists the names the library actually exports, line for line.
	True string `yaml:"true"`
}

// Config describes how to open a native runtime.
type Config struct {
	// Library is a path or a base name; base names get the platform
	// extension.
	Library     string `yaml:"library"`
	Names       Names  `yaml:"names"`
	Fingerprint string `yaml:"fingerprint"`
	// StrictFingerprint fails Open when the name map was produced for a
	// different library build. Otherwise the mismatch is logged.
	StrictFingerprint bool `yaml:"strict_fingerprint"`
	// StrictExports fails Open when any required export is missing.
	StrictExports bool `yaml:"strict_exports"`
	// LogLevel is a zap level name. Empty disables logging unless Logger
	// is set.
	LogLevel string `yaml:"log_level"`

	// Logger overrides LogLevel.
	Logger *zap.Logger `yaml:"-"`
}

// LoadConfig reads a YAML config file. Relative paths in it are resolved
// against the file's directory.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.NotFound(errors.PhaseConfig, "config", path)
		}
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read "+path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Source = path
		}
		return Config{}, err
	}
	cfg.relativeTo(filepath.Dir(path))
	return cfg, nil
}

// ParseConfig parses YAML config data and applies defaults.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse config")
	}
	if _, err := cfg.level(); err != nil {
		return Config{}, err
	}
	return cfg.WithDefaults(), nil
}

// WithDefaults returns a copy of c with empty fields set to their
// defaults.
func (c Config) WithDefaults() Config {
	if c.Library == "" {
		c.Library = DefaultLibrary
	}
	if c.Names.Obfuscated == "" {
		c.Names.Obfuscated = DefaultObfuscated
	}
	if c.Names.True == "" {
		c.Names.True = DefaultTrue
	}
	if c.Fingerprint == "" {
		c.Fingerprint = DefaultFingerprint
	}
	return c
}

func (c *Config) relativeTo(dir string) {
	for _, p := range []*string{&c.Names.Obfuscated, &c.Names.True, &c.Fingerprint} {
		if !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	if filepath.Ext(c.Library) != "" && !filepath.IsAbs(c.Library) {
		c.Library = filepath.Join(dir, c.Library)
	}
}

func (c Config) level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.LogLevel).
			Cause(err).
			Detail("unknown log level %q", c.LogLevel).
			Build()
	}
	return lvl, nil
}

// logger returns the logger Open installs in every package.
func (c Config) logger() (*zap.Logger, error) {
	if c.Logger != nil {
		return c.Logger, nil
	}
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "build logger")
	}
	return l, nil
}
