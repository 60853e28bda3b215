package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		Build    string

		AppName         string
		SecretKey       string
		FrontendBaseURL string

		// AllowedEmailDomain is the institutional email domain suffix
		// (with leading "@") an identity must carry to pass the access gate.
		AllowedEmailDomain string

		DefaultFromName string
		DefaultFromAddr string
		SendgridApiKey  string
		RollbarToken    string

		Server   ServerConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host               string
		Port               int
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddr}
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewConfig loads the app configuration: code defaults first, then an optional
// `config/.env.<env>` file, then environment variables prefixed with `<ENV>_`.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "ObsHub")
	conf.SetDefault("secretKey", "x#a2bb)e8e-h7f1$yy@3o&4%dhs^1q*8m)b&@7d_e0up5m+1vt")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("allowedEmailDomain", "@pepschoolv2.com")
	conf.SetDefault("defaultFromName", "ObsHub")
	conf.SetDefault("defaultFromAddr", "noreply@localhost")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.host", "0.0.0.0")
	conf.SetDefault("server.port", 8000)
	conf.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.name", "obshub")
	conf.SetDefault("database.user", "obshub")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetDefault("env", env)
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:                env,
		Debug:              conf.GetBool("debug"),
		TestMode:           conf.GetBool("testMode"),
		Build:              conf.GetString("build"),
		AppName:            conf.GetString("appName"),
		SecretKey:          conf.GetString("secretKey"),
		FrontendBaseURL:    conf.GetString("frontendBaseURL"),
		AllowedEmailDomain: conf.GetString("allowedEmailDomain"),
		DefaultFromName:    conf.GetString("defaultFromName"),
		DefaultFromAddr:    conf.GetString("defaultFromAddr"),
		SendgridApiKey:     conf.GetString("sendgridApiKey"),
		RollbarToken:       conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               conf.GetString("server.host"),
			Port:               conf.GetInt("server.port"),
			JWTExpirationDelta: conf.GetDuration("server.jwtExpirationDelta"),
			ShutdownTimeout:    conf.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
	}
}

// NewTestConfig returns a Config for unit tests: deterministic secrets,
// no external services.
func NewTestConfig() *Config {
	c := NewConfig()
	c.Env = "TEST"
	c.Debug = true
	c.TestMode = true
	c.SecretKey = "test-secret-key"
	return c
}
