package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	UserDriverPostgres = "postgres"
	UserDriverRedis    = "redis"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	MongoDB    MongoDB    `yaml:"mongo"`
	Users      Users      `yaml:"users"`
	PostgresDB PostgresDB `yaml:"db"`
	RedisDB    RedisDB    `yaml:"rdb"`
	Model      Model      `yaml:"model"`
	LLM        LLM        `yaml:"llm"`
}

type Server struct {
	Addr          string        `env:"SERVER_ADDR"   env-default:"0.0.0.0:5001" yaml:"addr"`
	ReadTimeout   time.Duration `env-default:"10s"   yaml:"readTimeout"`
	IdleTimeout   time.Duration `env-default:"30s"   yaml:"idleTimeout"`
	WriteTimeout  time.Duration `env-default:"150s"  yaml:"writeTimeout"`
	MaxUploadSize int64         `env-default:"33554432" yaml:"maxUploadSize"`
	StaticDir     string        `env:"STATIC_DIR"    yaml:"staticDir"`
}

type Logger struct {
	Level     string   `env:"LOG_LEVEL"     env-default:"info"   yaml:"level"`
	Output    []string `env-default:"stdout" yaml:"output"`
	ErrOutput []string `env-default:"stderr" yaml:"errOutput"`
}

type MongoDB struct {
	URI        string `env:"MONGO_URI"        env-default:"mongodb://mongo:27017/" yaml:"uri"`
	Database   string `env:"MONGO_DATABASE"   env-default:"AteamBank"             yaml:"database"`
	Collection string `env:"MONGO_COLLECTION" env-default:"customer_details"      yaml:"collection"`
	// BatchCollection is the collection batch prediction reads from and writes
	// labels back to. Empty means Collection.
	BatchCollection string `env:"MONGO_BATCH_COLLECTION" yaml:"batchCollection"`
}

type Users struct {
	Driver     string `env:"USERS_DRIVER" env-default:"postgres" yaml:"driver"`
	BcryptCost int    `env-default:"10"   yaml:"bcryptCost"`
}

type PostgresDB struct {
	Addr     string `env:"POSTGRES_ADDR"     env-default:"postgres:5432" yaml:"addr"`
	Username string `env:"POSTGRES_USER"     yaml:"username"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	DB       string `env:"POSTGRES_DB"       yaml:"db"`
	SSLmode  string `env-default:"disable"   yaml:"sslmode"`
	MaxConns string `env-default:"10"        yaml:"maxConns"`
	Reload   bool   `yaml:"reload"`
	Version  int    `yaml:"version"`
}

type RedisDB struct {
	Addr     string `env:"REDIS_ADDR"     env-default:"redis:6379" yaml:"addr"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `env-default:"users"  yaml:"key"`
}

type Model struct {
	PreprocessorPath string `env:"PREPROCESSOR_PATH" env-default:"artifacts/preprocessor.json" yaml:"preprocessorPath"`
	ClassifierPath   string `env:"CLASSIFIER_PATH"   env-default:"artifacts/classifier.json"   yaml:"classifierPath"`
	LabelField       string `env-default:"Persona"   yaml:"labelField"`
}

type LLM struct {
	Address        string        `env:"LLM_ADDRESS" env-default:"https://h2ogpte.genai.h2o.ai" yaml:"address"`
	APIKey         string        `env:"API_KEY"     yaml:"apiKey"`
	Timeout        time.Duration `env-default:"120s" yaml:"timeout"`
	GXS            Chat          `env-prefix:"GXS_"            yaml:"gxs"`
	Playbook       Chat          `env-prefix:"CRM_PLAYBOOK_"   yaml:"playbook"`
	Recommendation Chat          `env-prefix:"RECOMMENDATION_" yaml:"recommendation"`
}

type Chat struct {
	CollectionID string `env:"COLLECTION_ID" yaml:"collectionId"`
	ChatID       string `env:"CHAT_ID"       yaml:"chatId"`
}

func New(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env error: %w", err)
	}

	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env error: %w", err)
		}
	} else if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	if cfg.MongoDB.BatchCollection == "" {
		cfg.MongoDB.BatchCollection = cfg.MongoDB.Collection
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg Config) validate() error {
	switch cfg.Users.Driver {
	case UserDriverPostgres:
		if cfg.PostgresDB.Username == "" || cfg.PostgresDB.DB == "" {
			return fmt.Errorf("postgres user store requires POSTGRES_USER and POSTGRES_DB") //nolint:perfsprint
		}
	case UserDriverRedis:
	default:
		return fmt.Errorf("unknown users driver %q", cfg.Users.Driver)
	}

	return nil
}
