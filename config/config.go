package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yaoapp/kun/exception"
	"github.com/yaoapp/kun/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Conf the process config
var Conf Config

// LogOutput the rotating log file, nil when logging to stdout
var LogOutput io.WriteCloser

func init() {
	Init()
}

// Init setting
func Init() {

	filename, _ := filepath.Abs(filepath.Join(".", ".env"))
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		Conf = Load()
		return
	}

	Conf = LoadFrom(filename)
}

// LoadFrom load the config from an env file, the file values override the environment
func LoadFrom(envfile string) Config {

	file, err := filepath.Abs(envfile)
	if err != nil {
		return Load()
	}

	godotenv.Overload(file)
	return Load()
}

// Load the config from the environment
func Load() Config {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		exception.New("Can't read config %s", 500, err.Error()).Throw()
	}

	cfg.Root, _ = filepath.Abs(cfg.Root)

	// The names used by the web site are read when the AYYA_ ones are unset
	fallback(&cfg.Store.SupabaseURL, "NEXT_PUBLIC_SUPABASE_URL")
	fallback(&cfg.Store.SupabaseKey, "SUPABASE_SERVICE_ROLE_KEY")
	fallback(&cfg.Admin.Email, "ADMIN_EMAIL")
	fallback(&cfg.Admin.Password, "ADMIN_PASSWORD")
	fallback(&cfg.Admin.Secret, "ADMIN_SECRET")

	// The session secret falls back to the service key, then to a development value
	if cfg.Admin.Secret == "" {
		cfg.Admin.Secret = cfg.Store.SupabaseKey
	}
	if cfg.Admin.Secret == "" {
		cfg.Admin.Secret = "dev-secret"
	}

	if cfg.Store.File != "" && !filepath.IsAbs(cfg.Store.File) {
		cfg.Store.File = filepath.Join(cfg.Root, cfg.Store.File)
	}

	return cfg
}

func fallback(value *string, name string) {
	if *value == "" {
		*value = os.Getenv(name)
	}
}

// Validate check the settings the selected store driver needs
func (cfg Config) Validate() error {
	switch cfg.Store.Driver {
	case "supabase":
		if cfg.Store.SupabaseURL == "" || cfg.Store.SupabaseKey == "" {
			return fmt.Errorf("missing supabase settings, ensure AYYA_SUPABASE_URL and AYYA_SUPABASE_SERVICE_KEY are set")
		}
	case "postgres":
		if cfg.Store.DSN == "" {
			return fmt.Errorf("missing postgres settings, ensure AYYA_DB_DSN is set")
		}
	case "file":
		if cfg.Store.File == "" {
			return fmt.Errorf("missing file store settings, ensure AYYA_STORE_FILE is set")
		}
	default:
		return fmt.Errorf("store driver %s is not supported", cfg.Store.Driver)
	}

	if _, err := cfg.Location(); err != nil {
		return err
	}
	return nil
}

// Location the time zone export ranges are resolved in
func (cfg Config) Location() (*time.Location, error) {
	if cfg.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %s: %w", cfg.TimeZone, err)
	}
	return loc, nil
}

// Production set the production mode
func Production() {
	os.Setenv("AYYA_ENV", "production")
	Conf.Mode = "production"
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(log.TEXT)
	if Conf.LogMode == "JSON" {
		log.SetFormatter(log.JSON)
	}
	gin.SetMode(gin.ReleaseMode)
	ReloadLog()
}

// Development set the development mode
func Development() {
	os.Setenv("AYYA_ENV", "development")
	Conf.Mode = "development"
	log.SetLevel(log.TraceLevel)
	log.SetFormatter(log.TEXT)
	if Conf.LogMode == "JSON" {
		log.SetFormatter(log.JSON)
	}
	gin.SetMode(gin.DebugMode)
	ReloadLog()
}

// ReloadLog reopen the log output
func ReloadLog() {
	CloseLog()
	OpenLog()
}

// OpenLog open the log output
func OpenLog() {

	if Conf.Log == "" {
		log.SetOutput(os.Stdout)
		gin.DefaultWriter = os.Stdout
		return
	}

	if !filepath.IsAbs(Conf.Log) {
		Conf.Log = filepath.Join(Conf.Root, Conf.Log)
	}

	logfile, err := filepath.Abs(Conf.Log)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(logfile), 0755); err != nil {
		log.Error("[Log] %s %s", logfile, err.Error())
		return
	}

	LogOutput = &lumberjack.Logger{
		Filename:   logfile,
		MaxSize:    Conf.LogMaxSize, // megabytes
		MaxBackups: Conf.LogMaxBackups,
		MaxAge:     Conf.LogMaxAage, //days
		LocalTime:  Conf.LogLocalTime,
	}

	log.SetOutput(LogOutput)
	gin.DefaultWriter = io.MultiWriter(LogOutput)
}

// CloseLog close the log output
func CloseLog() {
	if LogOutput != nil {
		err := LogOutput.Close()
		if err != nil {
			log.Error("%s", err.Error())
			return
		}
		LogOutput = nil
	}
}
