package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ETLConfig содержит конфигурацию для ETL-процесса
type ETLConfig struct {
	// Операционная БД (MySQL или PostgreSQL)
	Operational DatabaseConfig `yaml:"operational"`

	// Аналитическая витрина (DuckDB)
	Mart MartConfig `yaml:"mart"`

	// Staging-область с исходными файлами
	Staging StagingConfig `yaml:"staging"`

	// Интервал запуска ETL в режиме scheduled
	RunInterval time.Duration `yaml:"run_interval"`

	// Время суток (UTC) для ежедневного запуска, например "02:00"; пусто - каждые RunInterval
	DailyAt string `yaml:"daily_at"`

	// Количество строк в одном INSERT при добавлении в операционную БД
	BatchSize int `yaml:"batch_size"`

	// Политика разрешения конфликтов атрибутов измерений: first_seen или last_seen
	DimensionConflictPolicy string `yaml:"dimension_conflict_policy"`

	// Адрес для /metrics в режиме scheduled; пусто - метрики не публикуются
	MetricsAddr string `yaml:"metrics_addr"`

	// Адрес HTTP-сервиса ручного ввода и журнала запусков
	HTTPAddr string `yaml:"http_addr"`

	// Каталог для файлов лога
	LogDir string `yaml:"log_dir"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `yaml:"enable_detailed_logging"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // mysql или postgres
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// MartConfig содержит настройки витрины данных
type MartConfig struct {
	// Путь к файлу DuckDB; пусто - база в памяти
	Path string `yaml:"path"`
}

// StagingConfig описывает расположение staging-области
type StagingConfig struct {
	Backend        string `yaml:"backend"` // fs или s3
	Root           string `yaml:"root"`    // корневой каталог для backend fs
	APIBucket      string `yaml:"api_bucket"`
	ManualBucket   string `yaml:"manual_bucket"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
	Compress       bool   `yaml:"compress"` // сжимать новые файлы snappy (.csv.sz)

	PlacesPrefix  string `yaml:"places_prefix"`
	ReviewsPrefix string `yaml:"reviews_prefix"`
	TweetsPrefix  string `yaml:"tweets_prefix"`
	IncomePrefix  string `yaml:"income_prefix"`
	ExpensePrefix string `yaml:"expense_prefix"`
}

// Значения конфигурации по умолчанию
var (
	DefaultOperationalConfig = DatabaseConfig{
		Driver: "mysql",
		Host:   "localhost",
		Port:   3306,
		User:   "root",
		DBName: "tourism_operational",
	}

	DefaultMartConfig = MartConfig{
		Path: "tourism_mart.duckdb",
	}

	DefaultStagingConfig = StagingConfig{
		Backend:       "fs",
		Root:          "staging",
		APIBucket:     "api-data-staging",
		ManualBucket:  "manual-data-staging",
		PlacesPrefix:  "source_data/places/",
		ReviewsPrefix: "source_data/reviews/",
		TweetsPrefix:  "source_data/tweets/",
		IncomePrefix:  "manual_input/pemasukan/",
		ExpensePrefix: "manual_input/pengeluaran/",
	}

	DefaultETLConfig = ETLConfig{
		Operational:             DefaultOperationalConfig,
		Mart:                    DefaultMartConfig,
		Staging:                 DefaultStagingConfig,
		RunInterval:             24 * time.Hour,
		BatchSize:               500,
		DimensionConflictPolicy: "first_seen",
		HTTPAddr:                ":8080",
		LogDir:                  "logs",
		EnableDetailedLogging:   true,
	}
)

// GetConfig возвращает конфигурацию ETL: значения по умолчанию, поверх которых
// накладывается YAML-файл из переменной ETL_CONFIG (если задана) и секреты из окружения
func GetConfig() (ETLConfig, error) {
	path := os.Getenv("ETL_CONFIG")
	if path == "" {
		config := DefaultETLConfig
		applyEnv(&config)
		return config, nil
	}
	return LoadConfig(path)
}

// LoadConfig читает YAML-файл конфигурации поверх значений по умолчанию
func LoadConfig(path string) (ETLConfig, error) {
	config := DefaultETLConfig

	file, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("ошибка чтения файла конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		return config, fmt.Errorf("ошибка разбора файла конфигурации %s: %w", path, err)
	}

	applyEnv(&config)

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate проверяет согласованность конфигурации
func (c ETLConfig) Validate() error {
	switch c.Operational.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("неизвестный драйвер операционной БД: %q", c.Operational.Driver)
	}

	switch c.Staging.Backend {
	case "fs", "s3":
	default:
		return fmt.Errorf("неизвестный backend staging-области: %q", c.Staging.Backend)
	}

	switch c.DimensionConflictPolicy {
	case "first_seen", "last_seen":
	default:
		return fmt.Errorf("неизвестная политика конфликтов измерений: %q", c.DimensionConflictPolicy)
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size должен быть положительным, получено %d", c.BatchSize)
	}

	if c.DailyAt != "" {
		if _, err := time.Parse("15:04", c.DailyAt); err != nil {
			return fmt.Errorf("daily_at должен быть в формате HH:MM: %w", err)
		}
	}
	return nil
}

// applyEnv подставляет секреты из переменных окружения
func applyEnv(config *ETLConfig) {
	if v := os.Getenv("ETL_OPERATIONAL_PASSWORD"); v != "" {
		config.Operational.Password = v
	}
	if v := os.Getenv("ETL_MART_PATH"); v != "" {
		config.Mart.Path = v
	}
}
