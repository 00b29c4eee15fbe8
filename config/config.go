package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filebackup/metadata"
	"filebackup/organizer"
	"filebackup/version"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is loaded from the working directory when -config is
// not given and the file exists.
const DefaultConfigFile = "appsettings.json"

const errorLogName = "error.txt"

type Config struct {
	SourceNode         string `json:"SourceNode" yaml:"SourceNode"`
	DestinationNode    string `json:"DestinationNode" yaml:"DestinationNode"`
	UseMetadata        Toggle `json:"UseMetadata" yaml:"UseMetadata"`
	OrganizationFormat string `json:"OrganizationFormat" yaml:"OrganizationFormat"`
	AppDir             string `json:"AppDir" yaml:"AppDir"`
	SearchPattern      string `json:"SearchPattern" yaml:"SearchPattern"`
	LogLevel           string `json:"LogLevel" yaml:"LogLevel"`
	MaxIOPerSecond     int    `json:"MaxIOPerSecond" yaml:"MaxIOPerSecond"`
	MetadataMaxBytes   int64  `json:"MetadataMaxBytes" yaml:"MetadataMaxBytes"`
	ConfigFile         string `json:"-" yaml:"-"`

	// Mode is the parsed OrganizationFormat, set by validate.
	Mode organizer.Mode `json:"-" yaml:"-"`
}

func defaults() *Config {
	return &Config{
		OrganizationFormat: organizer.ByYear.String(),
		SearchPattern:      "*",
		LogLevel:           "info",
		MaxIOPerSecond:     0,
		MetadataMaxBytes:   metadata.DefaultMaxBytes,
	}
}

func LoadConfig() (*Config, error) {
	cfg := defaults()

	source := flag.String("source", "", "Source root to back up (overrides SourceNode).")
	destination := flag.String("destination", "", "Destination root (overrides DestinationNode).")
	useMetadata := flag.Bool("use-metadata", bool(cfg.UseMetadata), fmt.Sprintf("Date images by their EXIF capture date (default: %t).", cfg.UseMetadata))
	organization := flag.String("organization", cfg.OrganizationFormat, fmt.Sprintf("Layout: Flat, ByYear, ByMonth, ByDay or PathEcho (default: %s).", cfg.OrganizationFormat))
	appDir := flag.String("app-dir", "", "Directory holding exclude.txt and extensions.txt (default: executable directory).")
	pattern := flag.String("pattern", cfg.SearchPattern, fmt.Sprintf("Glob pattern for file names to scan (default: %s).", cfg.SearchPattern))
	logLevel := flag.String("log-level", cfg.LogLevel, fmt.Sprintf("Log level: debug, info, warn, error, fatal, or panic (default: %s).", cfg.LogLevel))
	maxIO := flag.Int("max-io-per-second", cfg.MaxIOPerSecond, "Maximum files copied per second (default: 0, unlimited).")
	metadataMaxBytes := flag.Int64(
		"metadata-max-bytes",
		cfg.MetadataMaxBytes,
		fmt.Sprintf(
			"Maximum bytes the EXIF decoder may read per file (default: %d, 0 means unlimited).",
			cfg.MetadataMaxBytes,
		),
	)
	configFile := flag.String("config", "", fmt.Sprintf("Path to JSON or YAML configuration file (default: %s if present).", DefaultConfigFile))
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = displayHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("filebackup version %s\n", version.Version)
		os.Exit(0)
	}

	switch {
	case *configFile != "":
		cfg.ConfigFile = *configFile
	case fileExists(DefaultConfigFile):
		cfg.ConfigFile = DefaultConfigFile
	}
	if cfg.ConfigFile != "" {
		if err := cfg.loadFromFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.SourceNode = *source
		case "destination":
			cfg.DestinationNode = *destination
		case "use-metadata":
			cfg.UseMetadata = Toggle(*useMetadata)
		case "organization":
			cfg.OrganizationFormat = *organization
		case "app-dir":
			cfg.AppDir = *appDir
		case "pattern":
			cfg.SearchPattern = *pattern
		case "log-level":
			cfg.LogLevel = *logLevel
		case "max-io-per-second":
			cfg.MaxIOPerSecond = *maxIO
		case "metadata-max-bytes":
			cfg.MetadataMaxBytes = *metadataMaxBytes
		}
	})

	if cfg.AppDir == "" {
		dir, err := executableDir()
		if err != nil {
			return nil, fmt.Errorf("application path could not be found: %w", err)
		}
		cfg.AppDir = dir
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ErrorLogPath is the per-run error log under the destination root.
func (cfg *Config) ErrorLogPath() string {
	return filepath.Join(cfg.DestinationNode, errorLogName)
}

func displayHelp() {
	fmt.Println("filebackup - date-organised one-shot file backup")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  filebackup [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  filebackup --source /home/me/Pictures --destination /mnt/backup --organization ByMonth")
	fmt.Println("  filebackup --config backup.yaml --use-metadata")
}

func (cfg *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file: %v", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("invalid config file format: %v", err)
	}
	return nil
}

func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.SourceNode) == "" {
		return errors.New("source root (SourceNode) is not specified")
	}
	if strings.TrimSpace(cfg.DestinationNode) == "" {
		return errors.New("destination root (DestinationNode) is not specified")
	}
	if strings.TrimSpace(cfg.AppDir) == "" {
		return errors.New("application path could not be found")
	}
	mode, err := organizer.ParseMode(cfg.OrganizationFormat)
	if err != nil {
		return err
	}
	cfg.Mode = mode
	if strings.TrimSpace(cfg.SearchPattern) == "" {
		cfg.SearchPattern = "*"
	}
	if _, err := filepath.Match(cfg.SearchPattern, ""); err != nil {
		return fmt.Errorf("invalid search pattern %q: %v", cfg.SearchPattern, err)
	}
	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !containsString(validLogLevels, strings.ToLower(cfg.LogLevel)) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	if cfg.MaxIOPerSecond < 0 {
		return fmt.Errorf("invalid max I/O per second: %d", cfg.MaxIOPerSecond)
	}
	if cfg.MetadataMaxBytes < 0 {
		return fmt.Errorf("invalid metadata max bytes: %d", cfg.MetadataMaxBytes)
	}
	return nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	if dir == "" {
		return "", errors.New("empty executable directory")
	}
	return dir, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
