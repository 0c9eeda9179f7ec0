package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	ConfigEnvVar   = "KAZI_CONFIG"
	envPrefix      = "KAZI"
	defaultDirName = ".kazi"
	defaultFile    = "config.json"
)

// build is set at link time: -ldflags "-X github.com/trezcool/kazi/core.build=v1.2.3"
var build = "develop"

// StudentConfig is one entry of the "students" map of the config file.
type StudentConfig struct {
	Name   string `mapstructure:"name"`
	Domain string `mapstructure:"domain"`
	Token  string `mapstructure:"token"`
	UserID string `mapstructure:"userId"`
}

type Config struct {
	Env   string
	Build string
	Debug bool
	File  string // resolved config file path

	// Students is keyed by the lowered student key.
	Students    map[string]StudentConfig
	SkipCourses []string

	Concurrency  int
	HTTPTimeout  time.Duration // 0: no timeout
	RollbarToken string
}

// ResolveConfigPath picks the config file: explicit path, then $KAZI_CONFIG, then ~/.kazi/config.json.
func ResolveConfigPath(path string) (string, error) {
	if path = CleanString(path); path != "" {
		return path, nil
	}
	if path = CleanString(os.Getenv(ConfigEnvVar)); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", NewConfigError(fmt.Sprintf("cannot locate config file: set %s or pass --config", ConfigEnvVar))
	}
	return filepath.Join(home, defaultDirName, defaultFile), nil
}

// LoadConfig reads the config file and KAZI_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	path, err := ResolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigError(fmt.Sprintf("config file not found: %s", path))
		}
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", path)
	}

	// load .env if it exists (ignore if it does not)
	if _, err = os.Stat(".env"); err == nil {
		if err = godotenv.Load(".env"); err != nil {
			return nil, errors.Wrap(err, "config.godotenv(.env)")
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "config.os.Stat(.env)")
	}

	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)
	v.SetDefault("concurrency", 1)
	v.SetDefault("httpTimeout", time.Duration(0))
	v.SetDefault("rollbarToken", "")

	_ = v.BindEnv("env", envPrefix+"_ENV")
	_ = v.BindEnv("debug", envPrefix+"_DEBUG")
	_ = v.BindEnv("concurrency", envPrefix+"_CONCURRENCY")
	_ = v.BindEnv("httpTimeout", envPrefix+"_HTTP_TIMEOUT")
	_ = v.BindEnv("rollbarToken", envPrefix+"_ROLLBAR_TOKEN")

	v.SetConfigFile(path)
	if err = v.ReadInConfig(); err != nil {
		return nil, NewConfigError(fmt.Sprintf("reading config file %s: %v", path, err))
	}

	conf := &Config{
		Env:          strings.ToUpper(v.GetString("env")),
		Build:        build,
		Debug:        v.GetBool("debug"),
		File:         path,
		SkipCourses:  v.GetStringSlice("skipCourses"),
		Concurrency:  v.GetInt("concurrency"),
		HTTPTimeout:  v.GetDuration("httpTimeout"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	if err = v.UnmarshalKey("students", &conf.Students); err != nil {
		return nil, NewConfigError(fmt.Sprintf("parsing students in %s: %v", path, err))
	}
	if len(conf.Students) == 0 {
		return nil, NewConfigError(fmt.Sprintf("no students configured in %s", path))
	}
	// viper already lowers keys; normalize anyway so lookups never depend on it
	students := make(map[string]StudentConfig, len(conf.Students))
	for key, sc := range conf.Students {
		students[CleanString(key, true /* lower */)] = sc
	}
	conf.Students = students

	if conf.Concurrency < 1 {
		conf.Concurrency = 1
	}
	return conf, nil
}
