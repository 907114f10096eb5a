package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		AppName  string
		WorkDir  string

		SecretKey              string
		SessionExpirationDelta time.Duration

		DefaultFromEmail mail.Address
		ContactEmail     mail.Address
		SendgridApiKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Upload   UploadConfig
	}

	ServerConfig struct {
		Host            string
		Port            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	UploadConfig struct {
		Root    string
		MaxSize string // echo BodyLimit format, eg. "16M"
	}
)

func (c ServerConfig) Address() string   { return c.Host + ":" + c.Port }
func (c DatabaseConfig) Address() string { return c.Host + ":" + c.Port }

// NewConfig loads the app configuration; defaults first, then an optional
// config/.env.<env> file, then environment variables prefixed with <ENV>_.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	wd := Getwd()

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Shule")
	conf.SetDefault("secretKey", "kx0w-bdq)shl$+41=pz&hexa9(y!k)#*f8(#mn2v^$wepj5ye") // never use in a real deployment
	conf.SetDefault("sessionExpirationDelta", 12*time.Hour)
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("contactEmail", "office@localhost")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverPort", "8000")
	conf.SetDefault("serverDebugHost", "localhost:8001")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseName", "shule")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("uploadRoot", filepath.Join(wd, "static", "uploads"))
	conf.SetDefault("uploadMaxSize", "16M")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:                  conf.GetBool("debug"),
		TestMode:               conf.GetBool("testMode"),
		Env:                    env,
		Build:                  conf.GetString("build"),
		AppName:                conf.GetString("appName"),
		WorkDir:                wd,
		SecretKey:              conf.GetString("secretKey"),
		SessionExpirationDelta: conf.GetDuration("sessionExpirationDelta"),
		DefaultFromEmail:       mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		ContactEmail:           mail.Address{Name: "School Office", Address: conf.GetString("contactEmail")},
		SendgridApiKey:         conf.GetString("sendgridApiKey"),
		RollbarToken:           conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			Port:            conf.GetString("serverPort"),
			DebugHost:       conf.GetString("serverDebugHost"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Name:          conf.GetString("databaseName"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
		Upload: UploadConfig{
			Root:    conf.GetString("uploadRoot"),
			MaxSize: conf.GetString("uploadMaxSize"),
		},
	}

	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.SecretKey, "secretKey"),
		vala.StringNotEmpty(c.Database.Engine, "databaseEngine"),
		vala.StringNotEmpty(c.Database.Name, "databaseName"),
		vala.StringNotEmpty(c.Upload.Root, "uploadRoot"),
	).Check()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}
