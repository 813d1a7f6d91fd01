package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// SessionConfig configures the browser session cookie and its server-side rows.
type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
	TTLHours   int    `mapstructure:"ttl_hours"`
}

// ResetConfig configures password-reset tokens. The signing secret must be
// supplied independently from any other secret in the deployment.
type ResetConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpireSeconds int    `mapstructure:"expire_seconds"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
	AvatarDir string `mapstructure:"avatar_dir"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type WebConfig struct {
	TemplateGlob string `mapstructure:"template_glob"`
	StaticDir    string `mapstructure:"static_dir"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Reset    ResetConfig    `mapstructure:"reset"`
	Security SecurityConfig `mapstructure:"security"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
	Web      WebConfig      `mapstructure:"web"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. MS_SERVER_PORT=9000
		v.SetEnvPrefix("MS") // media share
		v.AutomaticEnv()

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		ApplyDefaults(&c)
		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// ApplyDefaults fills zero-value fields with working defaults.
func ApplyDefaults(c *Config) {
	if c.Session.CookieName == "" {
		c.Session.CookieName = "ms_session"
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = 24 * 7
	}
	if c.Reset.ExpireSeconds <= 0 {
		c.Reset.ExpireSeconds = 3600
	}
	if c.Security.BcryptCost <= 0 {
		c.Security.BcryptCost = 12
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "data/uploads"
	}
	if c.Storage.AvatarDir == "" {
		c.Storage.AvatarDir = "data/avatars"
	}
	if c.Web.TemplateGlob == "" {
		c.Web.TemplateGlob = "web/templates/*"
	}
	if c.Web.StaticDir == "" {
		c.Web.StaticDir = "web/static"
	}
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
