package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything read from the environment at startup. It is loaded
// once in main and passed by reference into the service constructors; no
// component reads the environment on its own.
type Config struct {
	Env    string `env:"ENV" env-default:"local"`
	Port   int    `env:"PORT" env-default:"3000"`
	Domain string `env:"DOMAIN" env-default:"http://localhost:3000"`

	Stripe Stripe
	Mail   Mail

	AdminEmail     string `env:"ADMIN_EMAIL" env-required:"true"`
	SubmissionsDir string `env:"SUBMISSIONS_DIR" env-default:"submissions"`
	PlansDir       string `env:"PLANS_DIR" env-default:"plans"`
	PublicDir      string `env:"PUBLIC_DIR" env-default:"public"`
}

type Stripe struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY" env-required:"true"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET" env-required:"true"`
}

type Mail struct {
	Host     string `env:"MAIL_HOST" env-default:"smtp.example.com"`
	Port     int    `env:"MAIL_PORT" env-default:"465"`
	User     string `env:"MAIL_USER" env-required:"true"`
	Pass     string `env:"MAIL_PASS" env-required:"true"`
	SSL      bool   `env:"MAIL_SECURE" env-default:"true"`
	FromName string `env:"MAIL_FROM_NAME" env-default:"Echtwork"`
}

func MustLoad() (cfg Config) {
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return
}
