package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type DB struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Pass     string `yaml:"password"`
	Name     string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
}

type MQ struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	User  string `yaml:"user"`
	Pass  string `yaml:"password"`
	VHost string `yaml:"vhost"`
}

type Redis struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Pass string `yaml:"password"`
	DB   int    `yaml:"db"`
}

type HTTP struct {
	Port int `yaml:"port"`
}

type Auth struct {
	SessionTTL time.Duration `yaml:"-"`
}

// UnmarshalYAML accepts session_ttl as a Go duration string ("12h", "30m").
func (a *Auth) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		SessionTTL string `yaml:"session_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.SessionTTL == "" {
		return nil
	}
	d, err := time.ParseDuration(raw.SessionTTL)
	if err != nil {
		return fmt.Errorf("parse session_ttl: %w", err)
	}
	a.SessionTTL = d
	return nil
}

type App struct {
	Database DB    `yaml:"database"`
	Rabbit   MQ    `yaml:"rabbitmq"`
	Redis    Redis `yaml:"redis"`
	HTTP     HTTP  `yaml:"http"`
	Auth     Auth  `yaml:"auth"`
}

func defaults() App {
	return App{
		Database: DB{Port: 5432, SSLMode: "disable", MaxConns: 10},
		Rabbit:   MQ{Port: 5672, VHost: "/"},
		Redis:    Redis{Port: 6379},
		HTTP:     HTTP{Port: 3000},
		Auth:     Auth{SessionTTL: 12 * time.Hour},
	}
}

func Load(path string) (App, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, err
	}
	a := defaults()
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if a.Database.Host == "" || a.Database.User == "" || a.Database.Name == "" {
		return App{}, errors.New("invalid config: database host/user/database are required")
	}
	if a.Rabbit.Host == "" || a.Rabbit.User == "" {
		return App{}, errors.New("invalid config: rabbitmq host/user are required")
	}
	if a.Redis.Host == "" {
		return App{}, errors.New("invalid config: redis host is required")
	}
	return a, nil
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "config.yml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
