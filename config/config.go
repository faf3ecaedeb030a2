package config

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	Dsn                 string `env:"DSN" envDefault:"postgres://localhost:5432/roamark"`
	MigrateOnStart      bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	JwtSecret           string `env:"JWT_SECRET"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"roamark/photos"`
	GoogleMapsAPIKey    string `env:"GOOGLE_MAPS_API_KEY"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Println("[Env]: unable to load .env file", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Println("[Env]: failed to parse environment variables:", parseErr)
	}

	return &cfg
}
