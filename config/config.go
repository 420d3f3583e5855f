package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds all environment-driven settings for the server.
type Config struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	MongoURI    string   `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB     string   `envconfig:"MONGO_DB" default:"tonica"`
	JWTSecret   string   `envconfig:"JWT_SECRET" required:"true"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`
	GinMode     string   `envconfig:"GIN_MODE" default:"debug"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
