// Package config loads cgstats settings from defaults, a YAML file, the
// environment and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/srodi/cgstats/pkg/collector/cgroup"
	"github.com/srodi/cgstats/pkg/store"
	"github.com/srodi/cgstats/pkg/types"
)

// Snapshot store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config is the complete cgstats configuration.
type Config struct {
	StateFile  string  `yaml:"state_file"`
	Threshold  float64 `yaml:"threshold" validate:"lte=1"`
	Store      string  `yaml:"store" validate:"oneof=file redis"`
	CgroupRoot string  `yaml:"cgroup_root" validate:"required"`

	Redis  RedisConfig  `yaml:"redis"`
	Global GlobalConfig `yaml:"global"`
	Log    LogConfig    `yaml:"log"`
}

// RedisConfig holds the connection settings of the redis store.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	Key      string `yaml:"key"`
}

// GlobalConfig holds the progress bar style shared by the report.
type GlobalConfig struct {
	ProgressFullCharacter  string `yaml:"progress_full_character" validate:"required"`
	ProgressEmptyCharacter string `yaml:"progress_empty_character" validate:"required"`
	ProgressPrefix         string `yaml:"progress_prefix"`
	ProgressSuffix         string `yaml:"progress_suffix"`
	ProgressWidth          int    `yaml:"progress_width" validate:"gt=2"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		StateFile:  defaultStateFile(),
		Threshold:  types.DefaultThreshold,
		Store:      StoreFile,
		CgroupRoot: cgroup.DefaultRoot,
		Redis: RedisConfig{
			Address: "localhost:6379",
			Key:     store.DefaultRedisKey,
		},
		Global: GlobalConfig{
			ProgressFullCharacter:  "=",
			ProgressEmptyCharacter: "=",
			ProgressPrefix:         "[",
			ProgressSuffix:         "]",
			ProgressWidth:          80,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultStateFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cgstats", "state.yaml")
}

// Load applies, in order, the defaults, the YAML file at path (skipped when
// path is empty) and the environment, including a .env file if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.StateFile = getEnv("CGSTATS_STATE_FILE", cfg.StateFile)
	cfg.Store = getEnv("CGSTATS_STORE", cfg.Store)
	cfg.CgroupRoot = getEnv("CGSTATS_CGROUP_ROOT", cfg.CgroupRoot)
	cfg.Redis.Address = getEnv("CGSTATS_REDIS_ADDR", cfg.Redis.Address)
	cfg.Redis.Username = getEnv("CGSTATS_REDIS_USERNAME", cfg.Redis.Username)
	cfg.Redis.Password = getEnv("CGSTATS_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.Key = getEnv("CGSTATS_REDIS_KEY", cfg.Redis.Key)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	if raw := os.Getenv("CGSTATS_THRESHOLD"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("CGSTATS_THRESHOLD: %w", err)
		}
		cfg.Threshold = v
	}
	if raw := os.Getenv("CGSTATS_REDIS_DB"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("CGSTATS_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = v
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and the per-backend required settings.
func Validate(cfg *Config) error {
	var problems []error

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, errors.New(fieldMessage(fe)))
		}
	}

	switch cfg.Store {
	case StoreFile:
		if strings.TrimSpace(cfg.StateFile) == "" {
			problems = append(problems, errors.New("state_file is required for the file store"))
		}
	case StoreRedis:
		if strings.TrimSpace(cfg.Redis.Address) == "" {
			problems = append(problems, errors.New("redis.address is required for the redis store"))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(problems...))
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
