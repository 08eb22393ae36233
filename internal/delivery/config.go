package delivery

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SMTPConfig holds the provider settings for the primary transport.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Config is the delivery configuration: where reports go and which
// environment the service runs in.
type Config struct {
	Recipient   string     `yaml:"recipient"`
	Environment string     `yaml:"environment"`
	SMTP        SMTPConfig `yaml:"smtp"`
}

// LoadConfig reads the delivery configuration from the environment, then
// overlays an optional YAML file named by DELIVERY_CONFIG. File values win
// over environment values when both are set.
func LoadConfig() (Config, error) {
	cfg := Config{
		Recipient:   os.Getenv("REPORT_RECIPIENT"),
		Environment: getenvDefault("APP_ENV", "development"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     587,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("delivery config: SMTP_PORT: %w", err)
		}
		cfg.SMTP.Port = port
	}

	path := os.Getenv("DELIVERY_CONFIG")
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("delivery config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("delivery config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Policy is the resolved delivery behavior for one environment: the primary
// transport, an optional fallback, and whether the fallback may be used.
type Policy struct {
	Recipient       string
	Primary         Transport
	Fallback        Transport
	FallbackAllowed bool
}

// BuildPolicy wires the transports from configuration. The fallback is only
// permitted outside production; production deliveries must fail loudly.
func BuildPolicy(cfg Config, logger *log.Logger) Policy {
	return Policy{
		Recipient:       cfg.Recipient,
		Primary:         NewSMTPTransport(cfg.SMTP),
		Fallback:        NewLogTransport(logger),
		FallbackAllowed: cfg.Environment != "production",
	}
}

// Preflight validates the policy before any archive work starts.
func (p Policy) Preflight() error {
	if p.Recipient == "" {
		return ErrMissingRecipient
	}
	if p.Primary == nil {
		return fmt.Errorf("delivery: no primary transport configured")
	}
	if err := p.Primary.Ready(); err != nil {
		if p.FallbackAllowed && p.Fallback != nil {
			return nil
		}
		return err
	}
	return nil
}
