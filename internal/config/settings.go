package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings keys
const (
	KeyYTDLPPath        = "ytdlp.path"
	KeyYTDLPAudioFormat = "ytdlp.audio_format"
	KeyYTDLPFormat      = "ytdlp.format"
	KeyYTDLPDisabled    = "ytdlp.disabled"

	KeyChunkSize   = "download.chunk_size"
	KeyHTTPTimeout = "download.http_timeout"
	KeyAutoAdvance = "download.auto_advance"

	KeyDataDir    = "paths.data_dir"
	KeyConfigDir  = "paths.config_dir"
	KeyCatalog    = "paths.catalog"
	KeyCatalogURL = "paths.catalog_url"

	KeyLogFile  = "logging.file"
	KeyLogLevel = "logging.level"
)

// Default values
const (
	DefaultYTDLPPath        = "yt-dlp"
	DefaultYTDLPAudioFormat = "opus"
	DefaultYTDLPFormat      = "ba[ext=webm]/ba"
	DefaultChunkSize        = 8192
	DefaultHTTPTimeout      = time.Duration(0)
	DefaultAutoAdvance      = true
	DefaultLogLevel         = "INFO"

	MinChunkSize = 512
	MaxChunkSize = 1 << 20

	ConfigName = "config"
	ConfigType = "yaml"
	EnvPrefix  = "SOUNDFETCH"
)

// Settings holds all application configuration
type Settings struct {
	YTDLP    YTDLPConfig    `mapstructure:"ytdlp"`
	Download DownloadConfig `mapstructure:"download"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// YTDLPConfig configures the external extraction tool
type YTDLPConfig struct {
	Path        string `mapstructure:"path"`
	AudioFormat string `mapstructure:"audio_format"`
	Format      string `mapstructure:"format"`
	Disabled    bool   `mapstructure:"disabled"` // force the direct HTTP strategy
}

// DownloadConfig configures transfers and queue processing
type DownloadConfig struct {
	ChunkSize   int           `mapstructure:"chunk_size"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"` // 0 disables the timeout
	AutoAdvance bool          `mapstructure:"auto_advance"`
}

// PathsConfig overrides host directory conventions
type PathsConfig struct {
	DataDir   string `mapstructure:"data_dir"`
	ConfigDir string `mapstructure:"config_dir"`
	Catalog   string `mapstructure:"catalog"`
	// CatalogURL is where init downloads the sound catalog from
	CatalogURL string `mapstructure:"catalog_url"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultSettings returns the built-in configuration
func DefaultSettings() *Settings {
	return &Settings{
		YTDLP: YTDLPConfig{
			Path:        DefaultYTDLPPath,
			AudioFormat: DefaultYTDLPAudioFormat,
			Format:      DefaultYTDLPFormat,
		},
		Download: DownloadConfig{
			ChunkSize:   DefaultChunkSize,
			HTTPTimeout: DefaultHTTPTimeout,
			AutoAdvance: DefaultAutoAdvance,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigType)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultSettings()
	v.SetDefault(KeyYTDLPPath, d.YTDLP.Path)
	v.SetDefault(KeyYTDLPAudioFormat, d.YTDLP.AudioFormat)
	v.SetDefault(KeyYTDLPFormat, d.YTDLP.Format)
	v.SetDefault(KeyYTDLPDisabled, d.YTDLP.Disabled)
	v.SetDefault(KeyChunkSize, d.Download.ChunkSize)
	v.SetDefault(KeyHTTPTimeout, d.Download.HTTPTimeout)
	v.SetDefault(KeyAutoAdvance, d.Download.AutoAdvance)
	v.SetDefault(KeyDataDir, d.Paths.DataDir)
	v.SetDefault(KeyConfigDir, d.Paths.ConfigDir)
	v.SetDefault(KeyCatalog, d.Paths.Catalog)
	v.SetDefault(KeyCatalogURL, d.Paths.CatalogURL)
	v.SetDefault(KeyLogFile, d.Logging.File)
	v.SetDefault(KeyLogLevel, d.Logging.Level)
	return v
}

// Load reads configuration from file and environment. An explicit file must
// exist; otherwise config.yaml is searched in searchDirs and a missing file
// means defaults.
func Load(file string, searchDirs ...string) (*Settings, error) {
	v := newViper()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	s := DefaultSettings()
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	s.normalize()
	return s, nil
}

// Save writes the settings as YAML to dir/config.yaml
func (s *Settings) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper()
	v.Set(KeyYTDLPPath, s.YTDLP.Path)
	v.Set(KeyYTDLPAudioFormat, s.YTDLP.AudioFormat)
	v.Set(KeyYTDLPFormat, s.YTDLP.Format)
	v.Set(KeyYTDLPDisabled, s.YTDLP.Disabled)
	v.Set(KeyChunkSize, s.Download.ChunkSize)
	v.Set(KeyHTTPTimeout, s.Download.HTTPTimeout.String())
	v.Set(KeyAutoAdvance, s.Download.AutoAdvance)
	v.Set(KeyDataDir, s.Paths.DataDir)
	v.Set(KeyConfigDir, s.Paths.ConfigDir)
	v.Set(KeyCatalog, s.Paths.Catalog)
	v.Set(KeyCatalogURL, s.Paths.CatalogURL)
	v.Set(KeyLogFile, s.Logging.File)
	v.Set(KeyLogLevel, s.Logging.Level)

	configFile := filepath.Join(dir, ConfigName+"."+ConfigType)
	if err := v.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

// SetChunkSize sets the direct download chunk size, clamped to sane bounds
func (s *Settings) SetChunkSize(size int) {
	if size < MinChunkSize {
		size = MinChunkSize
	}
	if size > MaxChunkSize {
		size = MaxChunkSize
	}
	s.Download.ChunkSize = size
}

func (s *Settings) normalize() {
	s.SetChunkSize(s.Download.ChunkSize)
	if s.Download.HTTPTimeout < 0 {
		s.Download.HTTPTimeout = 0
	}
	if s.YTDLP.Path == "" {
		s.YTDLP.Path = DefaultYTDLPPath
	}
	if s.YTDLP.AudioFormat == "" {
		s.YTDLP.AudioFormat = DefaultYTDLPAudioFormat
	}
	if s.YTDLP.Format == "" {
		s.YTDLP.Format = DefaultYTDLPFormat
	}
	if s.Logging.Level == "" {
		s.Logging.Level = DefaultLogLevel
	}
}
