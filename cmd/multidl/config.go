package main

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/kr/pretty"
	flag "github.com/spf13/pflag"
)

// Config is the application configuration.
// Values come from the configuration file, then from the environment, then from the command line.
type Config struct {
	MaxTasks    int           `yaml:"max_tasks" env:"MULTIDL_MAX_TASKS" env-default:"2" env-description:"Maximum concurrent downloads at a time"`
	Policy      string        `yaml:"policy" env:"MULTIDL_POLICY" env-default:"collect" env-description:"What to do with failed downloads: collect, ignore or fail-fast"`
	Directory   string        `yaml:"directory" env:"MULTIDL_DIR" env-description:"Destination directory"`
	DefaultName string        `yaml:"default_name" env:"MULTIDL_DEFAULT_NAME" env-default:"video.mp4" env-description:"File name used when the URL doesn't give one"`
	Headless    bool          `yaml:"headless" env:"MULTIDL_HEADLESS" env-description:"Log the progression instead of drawing bars"`
	Timeout     time.Duration `yaml:"timeout" env:"MULTIDL_TIMEOUT" env-description:"Maximum duration of a request, 0 for none"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"MULTIDL_IDLE_TIMEOUT" env-description:"Abort a transfer when nothing is received during this duration, 0 for none"`
	UserAgent   string        `yaml:"user_agent" env:"MULTIDL_USER_AGENT" env-description:"User agent sent with requests"`
	LogLevel    string        `yaml:"log_level" env:"MULTIDL_LOG_LEVEL" env-default:"ERROR" env-description:"Log level (ERROR,INFO,TRACE,DEBUG)"`
	LogFile     string        `yaml:"log_file" env:"MULTIDL_LOG_FILE" env-description:"Log file name"`
	Locations   []string      `yaml:"locations" env:"MULTIDL_LOCATIONS" env-separator:"," env-description:"URLs downloaded when none is given on the command line"`
}

// addCommonFlags binds the flags shared by the commands to the cli configuration
func (a *app) addCommonFlags(fs *flag.FlagSet) {
	fs.StringVar(&a.ConfigFile, "config", "", "Configuration file (yaml, json, toml or env).")
	fs.StringVarP(&a.cli.Directory, "dir", "d", "", "Destination directory.")
	fs.DurationVar(&a.cli.Timeout, "timeout", 0, "Maximum duration of a request, 0 for none.")
	fs.DurationVar(&a.cli.IdleTimeout, "idle-timeout", 0, "Abort a transfer when nothing is received during this duration, 0 for none.")
	fs.StringVar(&a.cli.UserAgent, "user-agent", "", "User agent sent with requests.")
	fs.StringVarP(&a.cli.LogLevel, "log-level", "l", "ERROR", "Log level (INFO,TRACE,ERROR,DEBUG)")
	fs.StringVar(&a.cli.LogFile, "log-file", "", "Give the log file name.")
}

func (a *app) addDownloadFlags(fs *flag.FlagSet) {
	fs.IntVarP(&a.cli.MaxTasks, "max-tasks", "n", 2, "Maximum concurrent downloads at a time.")
	fs.StringVar(&a.cli.Policy, "policy", "collect", "What to do with failed downloads: collect, ignore or fail-fast.")
	fs.StringVar(&a.cli.DefaultName, "default-name", "video.mp4", "File name used when the URL doesn't give one.")
	fs.BoolVar(&a.cli.Headless, "headless", false, "Headless mode. Progression bars are not displayed.")
}

// loadConfig reads the configuration file when given, the environment, and applies
// the flags explicitly set on the command line.
func (a *app) loadConfig(fs *flag.FlagSet) (Config, error) {
	var (
		cfg Config
		err error
	)
	if a.ConfigFile != "" {
		err = cleanenv.ReadConfig(a.ConfigFile, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("Can't read configuration: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-tasks":
			cfg.MaxTasks = a.cli.MaxTasks
		case "policy":
			cfg.Policy = a.cli.Policy
		case "dir":
			cfg.Directory = a.cli.Directory
		case "default-name":
			cfg.DefaultName = a.cli.DefaultName
		case "headless":
			cfg.Headless = a.cli.Headless
		case "timeout":
			cfg.Timeout = a.cli.Timeout
		case "idle-timeout":
			cfg.IdleTimeout = a.cli.IdleTimeout
		case "user-agent":
			cfg.UserAgent = a.cli.UserAgent
		case "log-level":
			cfg.LogLevel = a.cli.LogLevel
		case "log-file":
			cfg.LogFile = a.cli.LogFile
		}
	})
	return cfg, nil
}

// dumpConfig gives a readable form of the configuration for debug logs
func dumpConfig(cfg Config) string {
	return fmt.Sprintf("%# v", pretty.Formatter(cfg))
}

// envDescription lists the environment variables understood by the application
func envDescription() string {
	header := "Environment variables:"
	s, err := cleanenv.GetDescription(&Config{}, &header)
	if err != nil {
		return ""
	}
	return s
}
