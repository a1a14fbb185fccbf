package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/breakerb0y/aaropa-calamares/internal/domain"
	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "options"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	requiredFlagName   = "required"
	selectFlagName     = "select"
	storageFlagName    = "storage"
	storageKeyFlagName = "storage-key"
	verboseFlagName    = "verbose"
	logFileFlagName    = "log-file"

	definitionsKey  = "definitions"
	requiredKey     = "required"
	selectionsKey   = "selections"
	storagePathKey  = "storage.path"
	storageKeyKey   = "storage.key"
	hiddenRulesKey  = "hidden.rules"
	loadParallelKey = "load.parallel"

	defaultRequired     = false
	defaultStoragePath  = ""
	defaultLoadParallel = 4

	envPrefix = "OPTIONS"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".options.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(definitionsKey, []string{})
	viper.SetDefault(requiredKey, defaultRequired)
	viper.SetDefault(selectionsKey, []string{})
	viper.SetDefault(storagePathKey, defaultStoragePath)
	viper.SetDefault(storageKeyKey, domain.DefaultStorageKey)
	viper.SetDefault(hiddenRulesKey, hiddenRulesDefault())
	viper.SetDefault(loadParallelKey, defaultLoadParallel)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// hiddenRulesDefault renders the built-in hidden rules the way they appear
// in the config file.
func hiddenRulesDefault() []map[string]any {
	rules := domain.DefaultHiddenRules()
	out := make([]map[string]any, 0, len(rules))

	for _, rule := range rules {
		out = append(out, map[string]any{
			"marker":   rule.Marker,
			"key":      rule.Key,
			"contains": rule.Contains,
		})
	}

	return out
}

func hiddenRules() ([]m.HiddenRule, error) {
	var rules []m.HiddenRule
	if err := viper.UnmarshalKey(hiddenRulesKey, &rules); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", hiddenRulesKey, err)
	}

	return rules, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
