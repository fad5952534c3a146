package scheduler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jzx17/gosched/pkg/retry"
	"github.com/jzx17/gosched/pkg/types"
)

// FileConfig is the YAML form of Config
//
//	workers: 8
//	lock_os_thread: false
//	steal_retries: 4
//	steal_backoff: 2us
//	shutdown_timeout: 10s
//	log_level: info
type FileConfig struct {
	Workers         int           `yaml:"workers"`
	LockOSThread    bool          `yaml:"lock_os_thread"`
	StealRetries    int           `yaml:"steal_retries"`
	StealBackoff    time.Duration `yaml:"steal_backoff"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
}

// ParseFileConfig decodes a YAML document. Unknown keys are rejected.
func ParseFileConfig(data []byte) (*FileConfig, error) {
	fc := &FileConfig{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	if err := fc.validate(); err != nil {
		return nil, err
	}
	return fc, nil
}

// LoadFileConfig reads and decodes a YAML config file
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	fc, err := ParseFileConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

func (fc *FileConfig) validate() error {
	if fc.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", types.ErrInvalidConfig, fc.Workers)
	}
	if fc.StealRetries < 0 {
		return fmt.Errorf("%w: steal_retries must not be negative, got %d", types.ErrInvalidConfig, fc.StealRetries)
	}
	if fc.StealBackoff < 0 || fc.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: durations must not be negative", types.ErrInvalidConfig)
	}
	if _, err := fc.level(); err != nil {
		return err
	}
	return nil
}

func (fc *FileConfig) level() (zerolog.Level, error) {
	if strings.TrimSpace(fc.LogLevel) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(fc.LogLevel)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log_level: %v", types.ErrInvalidConfig, err)
	}
	return lvl, nil
}

// Apply copies the file settings onto cfg. Zero values leave cfg untouched,
// except that the log level always applies to a logger already set on cfg.
func (fc *FileConfig) Apply(cfg *Config) error {
	if err := fc.validate(); err != nil {
		return err
	}

	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if fc.LockOSThread {
		cfg.LockOSThread = true
	}
	if fc.StealRetries > 0 {
		cfg.Contention.MaxAttempts = fc.StealRetries
	}
	if fc.StealBackoff > 0 {
		cfg.Contention.Backoff = retry.NewExponentialBackoff(fc.StealBackoff,
			retry.WithBackoffMaxDelay(fc.StealBackoff*16),
			retry.WithBackoffJitter(retry.EqualJitter))
	}
	if fc.ShutdownTimeout > 0 {
		cfg.ShutdownTimeout = fc.ShutdownTimeout
	}

	if cfg.Logger != nil {
		lvl, _ := fc.level()
		logger := cfg.Logger.Level(lvl)
		cfg.Logger = &logger
	}
	return nil
}
