// config.go
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	AuthURL     string
	RabbitURL   string
	Port        string

	// SMTP para el notificador
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Servicios externos de soporte
	StorageURL string
	MapsURL    string
	MapsAPIKey string
}

func Load() *Config {
	// .env es opcional, en producción las variables vienen del entorno
	if err := godotenv.Load(); err == nil {
		log.Println("Variables cargadas desde .env")
	}

	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "pedidos_db"),
		AuthURL:     getEnv("AUTH_URL", "http://host.docker.internal:3000"),
		RabbitURL:   getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		Port:        getEnv("PORT", "8080"),

		SMTPHost: getEnv("SMTP_HOST", "host.docker.internal"),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", "pedidos@localhost"),

		StorageURL: getEnv("STORAGE_URL", "http://host.docker.internal:3006"),
		MapsURL:    getEnv("MAPS_URL", "https://maps.googleapis.com/maps/api/staticmap"),
		MapsAPIKey: getEnv("MAPS_API_KEY", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Valor inválido para %s, usando %d", key, fallback)
	}
	return fallback
}
