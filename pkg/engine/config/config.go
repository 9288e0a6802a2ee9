//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package config provides configuration management for the permission
// engine using [Viper] for flexible configuration sources.
//
// Configuration can be provided via:
//   - YAML configuration files
//   - Environment variables with the PERM_ prefix
//   - Programmatic defaults
//
// # Configuration File
//
// By default, the engine looks for permengine-config.yaml in the current
// directory. Override the location using environment variables:
//
//	PERM_CONFIG_PATH=/etc/permengine
//	PERM_CONFIG_FILENAME=production-config
//
// Example configuration file:
//
//	log:
//	  level: ".:info"
//	cache:
//	  enabled: true
//	  size: 1024
//	decisionlog:
//	  pretty: false
//
// # Environment Variables
//
// All configuration keys can be set via environment variables with the
// PERM_ prefix. Dots in key names become underscores:
//
//	PERM_LOG_LEVEL=.:debug
//	PERM_CACHE_ENABLED=false
//	PERM_CACHE_SIZE=4096
//
// [Viper]: https://github.com/spf13/viper
package config

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/fieldworks/permengine/internal/logging"
	"github.com/spf13/viper"
)

// Environment variable and default path constants for configuration loading.
const (
	// EnvVarPrefix is the prefix for all permission engine environment
	// variables. For example, the key "log.level" becomes PERM_LOG_LEVEL.
	EnvVarPrefix string = "PERM"

	// ConfigPathEnv is the environment variable that specifies the directory
	// containing the configuration file.
	ConfigPathEnv string = "PERM_CONFIG_PATH"

	// ConfigFileNameEnv is the environment variable that specifies the
	// configuration file name (without extension).
	ConfigFileNameEnv string = "PERM_CONFIG_FILENAME"

	// ConfigDefaultPath is the default directory to search for config files.
	ConfigDefaultPath string = "."

	// ConfigDefaultFilename is the default configuration file name (without extension).
	ConfigDefaultFilename string = "permengine-config"
)

// Configuration key constants for use with [VConfig].
const (
	logLevel string = "log.level"

	// CacheEnabled controls whether the engine memoizes decisions. The
	// cache is an optimization only; disabling it never changes results.
	//
	// Default: true
	// Set via environment: PERM_CACHE_ENABLED=false
	CacheEnabled string = "cache.enabled"

	// CacheSize is the maximum number of memoized decisions held per
	// engine instance before the least recently used entries are evicted.
	//
	// Default: 1024
	// Set via environment: PERM_CACHE_SIZE=4096
	CacheSize string = "cache.size"

	// DecisionLogPretty controls whether decision log records written to
	// an io.Writer stream are indented multi-line JSON.
	//
	// Default: false (compact single-line JSON)
	// Set via environment: PERM_DECISIONLOG_PRETTY=true
	DecisionLogPretty string = "decisionlog.pretty"
)

var (
	once     sync.Once
	loadOnce sync.Once
	loadErr  error

	// VConfig is the global Viper configuration instance for the
	// permission engine.
	//
	// Use the configuration key constants ([CacheEnabled], [CacheSize],
	// etc.) to access specific settings:
	//
	//	if config.VConfig.GetBool(config.CacheEnabled) {
	//	    // Decision memoization is on
	//	}
	//
	// VConfig is initialized automatically when [Load] or [Init] is
	// called. Most applications never touch it directly; configuration is
	// handled by [engine.NewEngine].
	VConfig *viper.Viper
	logger  = logging.GetLogger("permengine.config")
)

// Init initializes the configuration system without loading config files.
//
// Init sets up Viper with file paths, environment variable handling
// (PERM_ prefix), and default values for all configuration keys. It is
// safe to call multiple times; subsequent calls are no-ops.
//
// Call Init explicitly only if you need to set Viper defaults before
// [Load] reads the configuration file.
func Init() {
	once.Do(doInitialize)
}

func getConfigPath() string {
	if configPath, ok := os.LookupEnv(ConfigPathEnv); ok {
		return configPath
	}
	return ConfigDefaultPath
}

func getConfigFileName() string {
	if configName, ok := os.LookupEnv(ConfigFileNameEnv); ok {
		return configName
	}
	return ConfigDefaultFilename
}

func doInitialize() {
	VConfig = viper.New()

	// set up config-file loading: default is './permengine-config.yaml' but can
	// be overridden with $(PERM_CONFIG_PATH)/$(PERM_CONFIG_FILENAME).yaml
	VConfig.AddConfigPath(getConfigPath())
	VConfig.SetConfigName(getConfigFileName())
	VConfig.SetConfigType("yaml")

	// set up envvar handling: keys such as 'log.level' become 'PERM_LOG_LEVEL'
	VConfig.SetEnvPrefix(EnvVarPrefix)
	VConfig.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	VConfig.AutomaticEnv()

	VConfig.SetDefault(logLevel, ".:info")
	VConfig.SetDefault(CacheEnabled, true)
	VConfig.SetDefault(CacheSize, 1024)
	VConfig.SetDefault(DecisionLogPretty, false)
}

// Load initializes configuration and loads settings from files and
// environment.
//
// Load performs the following steps:
//  1. Calls [Init] if not already called
//  2. Reads the configuration file (missing files are not an error)
//  3. Applies environment variable overrides
//  4. Updates log levels based on configuration
//
// Safe to call concurrently; calls after the first successful load are
// no-ops that return nil. Load is called automatically by
// [engine.NewEngine].
func Load() error {
	loadOnce.Do(func() {
		Init()

		// Early log level update from the environment lets us debug config loading itself.
		if early := os.Getenv("PERM_LOG_LEVEL"); early != "" {
			if err := logging.UpdateLogLevels(early); err != nil {
				logger.SysErrorf("Failed updating early log level %s: %+v", early, err)
				loadErr = err
				return
			}
		}

		logger.SysDebugf("Loading configuration from %s/%s.yaml", getConfigPath(), getConfigFileName())
		if err := VConfig.ReadInConfig(); err != nil {
			// Only log if it's an actual error, not just a missing config file
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				logger.SysWarnf("error reading config; using defaults: %+v", err)
			}
			logger.SysDebugf("No config file found at %s/%s.yaml", getConfigPath(), getConfigFileName())
		}

		loglevel := VConfig.GetString(logLevel)
		if err := logging.UpdateLogLevels(loglevel); err != nil {
			logger.SysErrorf("Failed updating log level %s: %+v", loglevel, err)
			loadErr = err
			return
		}

		if logger.IsDebugEnabled() {
			VConfig.DebugTo(logger.Out())
		}
	})

	return loadErr
}

// ResetConfig clears all configuration and reinitializes with defaults.
//
// WARNING: This function is intended for testing only. It resets the
// global configuration state, which can cause race conditions in
// concurrent code.
func ResetConfig() {
	VConfig = nil
	once = sync.Once{}
	loadOnce = sync.Once{}
	loadErr = nil
	Init()
	// ignore any reset errors
	_ = Load()
}
