package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	JwtSecret    string `yaml:"jwt_secret" json:"jwt_secret"`
	RequireToken bool   `yaml:"require_token" json:"require_token"`
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

// StorageConfig selects the object store backing uploaded images.
// Type "local" serves files from Dir under PublicURL; type "sftp" uploads to
// a remote image host over SSH.
type StorageConfig struct {
	Type      string `yaml:"type" json:"type"`
	Dir       string `yaml:"dir" json:"dir"`
	PublicURL string `yaml:"public_url" json:"public_url"`
	SftpHost  string `yaml:"sftp_host" json:"sftp_host"`
	SftpPort  int    `yaml:"sftp_port" json:"sftp_port"`
	SftpUser  string `yaml:"sftp_user" json:"sftp_user"`
	SftpPass  string `yaml:"sftp_pass" json:"sftp_pass"`
	SftpDir   string `yaml:"sftp_dir" json:"sftp_dir"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AdminConfig struct {
	Email  string `yaml:"email" json:"email"`
	Passwd string `yaml:"passwd" json:"passwd"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Storage  StorageConfig `yaml:"storage" json:"storage"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
	Admin    AdminConfig   `yaml:"admin" json:"admin"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "Catalog",
			Location: "UTC",
			Workdir:  "/var/catalog",
			Debug:    true,
		},
		Web: WebConfig{
			Host:         "0.0.0.0",
			Port:         3000,
			JwtSecret:    "",
			RequireToken: false,
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "catalog",
			User:     "postgres",
			Passwd:   "",
			MaxConn:  100,
			IdleConn: 10,
		},
		Storage: StorageConfig{
			Type:      "local",
			Dir:       "/var/catalog/uploads",
			PublicURL: "http://127.0.0.1:3000/uploads",
			SftpPort:  22,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/catalog/catalog.log",
		},
		Admin: AdminConfig{
			Email: "admin@melangjewelers.com",
		},
	}
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig reads the YAML config file when present, starting from defaults,
// then applies CATALOG_* environment overrides. A missing file is not an
// error; the defaults plus environment are enough to boot a dev instance.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig()
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("CATALOG_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("CATALOG_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("CATALOG_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("CATALOG_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("CATALOG_WEB_PORT", &cfg.Web.Port)
	setEnvValue("CATALOG_WEB_JWT_SECRET", &cfg.Web.JwtSecret)
	setEnvBoolValue("CATALOG_WEB_REQUIRE_TOKEN", &cfg.Web.RequireToken)

	setEnvValue("CATALOG_DB_TYPE", &cfg.Database.Type)
	setEnvValue("CATALOG_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("CATALOG_DB_PORT", &cfg.Database.Port)
	setEnvValue("CATALOG_DB_NAME", &cfg.Database.Name)
	setEnvValue("CATALOG_DB_USER", &cfg.Database.User)
	setEnvValue("CATALOG_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("CATALOG_STORAGE_TYPE", &cfg.Storage.Type)
	setEnvValue("CATALOG_STORAGE_DIR", &cfg.Storage.Dir)
	setEnvValue("CATALOG_STORAGE_PUBLIC_URL", &cfg.Storage.PublicURL)
	setEnvValue("CATALOG_STORAGE_SFTP_HOST", &cfg.Storage.SftpHost)
	setEnvIntValue("CATALOG_STORAGE_SFTP_PORT", &cfg.Storage.SftpPort)
	setEnvValue("CATALOG_STORAGE_SFTP_USER", &cfg.Storage.SftpUser)
	setEnvValue("CATALOG_STORAGE_SFTP_PWD", &cfg.Storage.SftpPass)
	setEnvValue("CATALOG_STORAGE_SFTP_DIR", &cfg.Storage.SftpDir)

	setEnvValue("CATALOG_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("CATALOG_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("CATALOG_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvValue("CATALOG_ADMIN_EMAIL", &cfg.Admin.Email)
	setEnvValue("CATALOG_ADMIN_PWD", &cfg.Admin.Passwd)

	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = filepath.Join(cfg.System.Workdir, "uploads")
	}
	return cfg
}
