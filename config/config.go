package config

import (
	"log"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string `env:"PORT,default=8080"`
	Origin    string `env:"ORIGIN,default=*"`
	JWTSecret string `env:"JWT_SECRET,required"`

	DB struct {
		Host     string `env:"DB_HOST,default=localhost"`
		User     string `env:"DB_USER,default=postgres"`
		Password string `env:"DB_PASSWORD"`
		Name     string `env:"DB_NAME,default=circleup"`
		Port     string `env:"DB_PORT,default=5432"`
	}
}

type R2Config struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"CLOUDFLARE_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"CLOUDFLARE_SECRET_ACCESS_KEY"`
	BucketName      string `env:"CLOUDFLARE_BUCKET_NAME"`
	PublicURL       string `env:"CLOUDFLARE_PUBLIC_URL"`
	Region          string `env:"CLOUDFLARE_REGION,default=auto"`
}

// Load reads .env when present and decodes the environment into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Not fatal - production runs without a .env file.
		log.Println("no .env file found, using environment variables")
	}

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		log.Fatalf("failed to decode config from environment: %v", err)
	}
	return &cfg
}

func GetR2Config() *R2Config {
	var cfg R2Config
	if err := envdecode.Decode(&cfg); err != nil {
		log.Printf("failed to decode R2 config: %v", err)
	}
	return &cfg
}
