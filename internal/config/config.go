package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Canvas     Canvas     `yaml:"canvas"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_SERVER_ADDRESS" env-default:"0.0.0.0:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"120s"`
}

type Canvas struct {
	PerPage            int           `yaml:"per_page" env:"CANVAS_PER_PAGE" env-default:"100"`
	CourseWindowMonths int           `yaml:"course_window_months" env:"CANVAS_COURSE_WINDOW_MONTHS" env-default:"12"`
	FetchConcurrency   int           `yaml:"fetch_concurrency" env:"CANVAS_FETCH_CONCURRENCY" env-default:"8"`
	RequestTimeout     time.Duration `yaml:"request_timeout" env:"CANVAS_REQUEST_TIMEOUT" env-default:"15s"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	var config Config
	if err := cleanenv.ReadConfig(configPath, &config); err != nil {
		log.Fatalf("cannot read config %s: %v", configPath, err)
	}
	return &config
}
