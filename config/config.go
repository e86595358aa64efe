package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug              bool          `envconfig:"debug"`
	Port               int           `envconfig:"port" default:"8080"`
	Env                string        `envconfig:"env" default:"dev"`
	BaseUrl            string        `envconfig:"base_url" default:"http://localhost:3000"`
	PostgresHost       string        `envconfig:"postgres_host" default:"localhost"`
	PostgresUser       string        `envconfig:"postgres_user" default:"postgres"`
	PostgresDB         string        `envconfig:"postgres_db" default:"barefoot"`
	PostgresPort       int           `envconfig:"postgres_port" default:"5432"`
	PostgresPassword   string        `envconfig:"postgres_password"`
	PostgresSSLMode    string        `envconfig:"postgres_sslmode" default:"disable"`
	JWTSecret          string        `envconfig:"jwt_secret"`
	TokenTTL           time.Duration `envconfig:"token_ttl" default:"24h"`
	ResetTokenTTL      time.Duration `envconfig:"reset_token_ttl" default:"600s"`
	MailgunApiKey      string        `envconfig:"mg_public_api_key"`
	MgDomain           string        `envconfig:"mg_domain"`
	MgEmailFrom        string        `envconfig:"email_from" default:"Barefoot Nomad <no-reply@barefoot.travel>"`
	NatsURL            string        `envconfig:"nats_url"`
	NatsSubjectPrefix  string        `envconfig:"nats_subject_prefix" default:"barefoot"`
	AwsRegion          string        `envconfig:"aws_region"`
	AwsAccessKeyID     string        `envconfig:"aws_access_key_id"`
	AwsSecretAccessKey string        `envconfig:"aws_secret_access_key"`
	AwsBucket          string        `envconfig:"aws_bucket"`
	GoogleClientID     string        `envconfig:"google_client_id"`
	GoogleClientSecret string        `envconfig:"google_client_secret"`
	GoogleRedirectURL  string        `envconfig:"google_redirect_url"`
	LoginRateLimit     uint          `envconfig:"login_rate_limit" default:"5"`
	AllowOrigins       []string      `envconfig:"allow_origins" default:"*"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("barefoot", c)
	if err != nil {
		return nil, err
	}
	if c.JWTSecret == "" {
		return nil, errors.New("BAREFOOT_JWT_SECRET is required")
	}
	return c, nil
}

// MailEnabled reports whether Mailgun credentials were provided.
func (c *Config) MailEnabled() bool {
	return c.MailgunApiKey != "" && c.MgDomain != ""
}

func (c *Config) StorageEnabled() bool {
	return c.AwsBucket != "" && c.AwsRegion != ""
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
