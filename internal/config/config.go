// config предоставляет структуру конфигурации агрегатора вакансий
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Поддерживаемые хранилища.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Ограничение API hh.ru на размер страницы.
const maxHHPageSize = 100

// Config — корневая конфигурация.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HH       HHConfig      `yaml:"hh"`
	Storage  StorageConfig `yaml:"storage"`
	Cache    CacheConfig   `yaml:"cache"`
	HTTP     HTTPConfig    `yaml:"http"`
	Watch    WatchConfig   `yaml:"watch"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HHConfig — параметры клиента API hh.ru.
type HHConfig struct {
	BaseURL   string `yaml:"base_url"   env:"HH_BASE_URL"   env-default:"https://api.hh.ru"`
	UserAgent string `yaml:"user_agent" env:"HH_USER_AGENT" env-default:"HH-User-Agent"`
	PageSize  int    `yaml:"page_size"  env:"HH_PAGE_SIZE"  env-default:"100"`
	// Сколько страниц запрашивать за один поиск, если вызывающий не задал своё значение.
	MaxPages int `yaml:"max_pages" env:"HH_MAX_PAGES" env-default:"20"`
	// Минимальный интервал между запросами страниц.
	MinInterval time.Duration `yaml:"min_interval" env:"HH_MIN_INTERVAL" env-default:"250ms"`
	// Оставлять разметку <highlighttext> в requirement/responsibility; по умолчанию она вырезается.
	KeepHighlight bool `yaml:"keep_highlight" env:"HH_KEEP_HIGHLIGHT"`
}

// StorageConfig — где хранить вакансии.
type StorageConfig struct {
	// Каталог файловых хранилищ (json/xlsx).
	Dir         string `yaml:"dir"          env:"STORAGE_DIR"          env-default:"data"`
	DefaultFile string `yaml:"default_file" env:"STORAGE_DEFAULT_FILE" env-default:"vacancies"`
	Backend     string `yaml:"backend"      env:"STORAGE_BACKEND"      env-default:"file"`
	PostgresURL string `yaml:"postgres_url" env:"DATABASE_URL"`
	MongoURL    string `yaml:"mongo_url"    env:"MONGO_URL"`
}

// CacheConfig — кэш страниц hh.ru в Redis. Пустой URL выключает кэш.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `yaml:"ttl"       env:"CACHE_TTL"    env-default:"30m"`
	Prefix   string        `yaml:"prefix"    env:"CACHE_PREFIX" env-default:"hh:page:"`
}

// HTTPConfig — сетевые настройки read-only HTTP API.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	// Разрешённые Origin для CORS; пустой список — любой.
	CORSOrigins []string `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-separator:","`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// WatchConfig — периодическая выгрузка вакансий по списку ключевых слов.
type WatchConfig struct {
	// Ключевые слова. Можно задать через ENV WATCH_KEYWORDS, разделитель — запятая.
	Keywords []string `yaml:"keywords" env:"WATCH_KEYWORDS" env-separator:","`
	Schedule string   `yaml:"schedule" env:"WATCH_SCHEDULE" env-default:"@every 6h"`
}

// TimeoutConfig — таймауты.
type TimeoutConfig struct {
	Request  time.Duration `yaml:"request"  env:"REQUEST_TIMEOUT"  env-default:"15s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	var (
		c   *Config
		err error
	)

	switch envPath := os.Getenv("CONFIG_PATH"); {
	case path != "":
		c, err = tryRead(path)
	case envPath != "":
		c, err = tryRead(envPath)
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			c, err = tryRead("local.yaml")
			break
		}

		if err = cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
		c = &cfg
	}
	if err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.HH.BaseURL == "" {
		return fmt.Errorf("hh.base_url is required")
	}
	if c.HH.PageSize <= 0 || c.HH.PageSize > maxHHPageSize {
		return fmt.Errorf("hh.page_size must be in [1, %d]", maxHHPageSize)
	}
	if c.HH.MaxPages <= 0 {
		return fmt.Errorf("hh.max_pages must be > 0")
	}
	if c.HH.MinInterval < 0 {
		return fmt.Errorf("hh.min_interval must be >= 0")
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}

	switch c.Storage.Backend {
	case BackendFile:
	case BackendPostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgres_url is required for backend %q", c.Storage.Backend)
		}
	case BackendMongo:
		if c.Storage.MongoURL == "" {
			return fmt.Errorf("storage.mongo_url is required for backend %q", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("storage.backend must be one of %s, %s, %s", BackendFile, BackendPostgres, BackendMongo)
	}

	if c.Cache.RedisURL != "" && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0")
	}
	return nil
}
