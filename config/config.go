package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Secret          string `yaml:"secret"`
	TokenExpireHour int    `yaml:"token_expire_hour"`
}

type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system"`
	Web      WebConfig `yaml:"web"`
	Database DBConfig  `yaml:"database"`
	Logger   LogConfig `yaml:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "StockEase",
		Location: "Asia/Shanghai",
		Workdir:  "/var/stockease",
		Debug:    true,
	},
	Web: WebConfig{
		Host:            "0.0.0.0",
		Port:            1816,
		Secret:          "",
		TokenExpireHour: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "stockease",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/stockease/stockease.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v := os.Getenv(name); v != "" {
		f(v)
	}
}

// LoadConfig reads the yaml config file and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(filepath.Clean(cfile)); err == nil {
			fileCfg := new(AppConfig)
			if err := yaml.Unmarshal(data, fileCfg); err == nil {
				cfg = fileCfg
			}
		}
	}

	setEnvValue("STOCKEASE_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("STOCKEASE_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = cast.ToBool(v) })
	setEnvValue("STOCKEASE_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("STOCKEASE_WEB_PORT", func(v string) { cfg.Web.Port = cast.ToInt(v) })
	setEnvValue("STOCKEASE_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("STOCKEASE_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("STOCKEASE_DB_PORT", func(v string) { cfg.Database.Port = cast.ToInt(v) })
	setEnvValue("STOCKEASE_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("STOCKEASE_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("STOCKEASE_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	return cfg
}
