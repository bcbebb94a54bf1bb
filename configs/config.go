package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	Catalog struct {
		BaseURL         string        `koanf:"base_url"`
		FetchTimeout    time.Duration `koanf:"fetch_timeout"`
		RefreshInterval time.Duration `koanf:"refresh_interval"`
		CacheTTL        time.Duration `koanf:"cache_ttl"`
	} `koanf:"catalog"`

	Checkout struct {
		// IntakeURL is the order intake endpoint the submission pipeline
		// posts to; usually this same service's /v1/orders.
		IntakeURL     string        `koanf:"intake_url"`
		SubmitTimeout time.Duration `koanf:"submit_timeout"`
		// MergeOverflow suppresses double billing when the overflow add-on
		// is both manually selected and auto-derived.
		MergeOverflow bool `koanf:"merge_overflow"`
	} `koanf:"checkout"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Rabbit struct {
		URL string `koanf:"url"`
	} `koanf:"rabbitmq"`

	SMTP struct {
		Host     string `koanf:"host"`
		Port     int    `koanf:"port"`
		Username string `koanf:"username"`
		Password string `koanf:"password"`
		From     string `koanf:"from"`
		To       string `koanf:"to"`
	} `koanf:"smtp"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix BALANG_, nested with __)
	// e.g. BALANG_MYSQL__DSN, BALANG_SMTP__PASSWORD
	if err := k.Load(env.Provider("BALANG_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "BALANG_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Checkout.IntakeURL == "" {
		return fmt.Errorf("checkout.intake_url required")
	}
	if c.SMTP.To == "" {
		return fmt.Errorf("smtp.to required")
	}
	return nil
}
