package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appname  string `yaml:"appname" json:"appname"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// Timeout is a duration string ("30s", "2m"); yaml.v2 cannot decode
// time.Duration directly.
type OcrConfig struct {
	URL     string `yaml:"url" json:"url"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// TimeoutDuration parses the configured timeout, falling back to 30s on a
// blank or unparsable value.
func (c OcrConfig) TimeoutDuration() time.Duration {
	d := cast.ToDuration(c.Timeout)
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
	Ocr      OcrConfig    `yaml:"ocr" json:"ocr"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appname:  "milltrack",
		Location: "Europe/Istanbul",
		Workdir:  "/var/milltrack",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6de5cc-milltrack-0e04",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "milltrack",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/milltrack/milltrack.log",
	},
	Ocr: OcrConfig{
		URL:     "http://127.0.0.1:8000",
		Timeout: "30s",
	},
}

func setEnvValue(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToInt(v)
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// overrides on top. A missing file falls back to defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				// The logger is not up yet when config loads.
				fmt.Fprintf(os.Stderr, "config file %s: %v\n", cfile, err)
			}
		}
	}

	setEnvValue("MILLTRACK_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("MILLTRACK_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("MILLTRACK_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("MILLTRACK_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("MILLTRACK_WEB_PORT", &cfg.Web.Port)
	setEnvValue("MILLTRACK_WEB_JWT_SECRET", &cfg.Web.JwtSecret)

	setEnvValue("MILLTRACK_DB_TYPE", &cfg.Database.Type)
	setEnvValue("MILLTRACK_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("MILLTRACK_DB_PORT", &cfg.Database.Port)
	setEnvValue("MILLTRACK_DB_NAME", &cfg.Database.Name)
	setEnvValue("MILLTRACK_DB_USER", &cfg.Database.User)
	setEnvValue("MILLTRACK_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("MILLTRACK_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("MILLTRACK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("MILLTRACK_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("MILLTRACK_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvValue("MILLTRACK_OCR_URL", &cfg.Ocr.URL)
	setEnvValue("MILLTRACK_OCR_TIMEOUT", &cfg.Ocr.Timeout)

	return cfg
}
