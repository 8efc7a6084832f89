package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Cache         CacheConfig
	API           APIConfig
	Notifications NotificationConfig
	RateLimit     RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CacheConfig struct {
	CategoryTTLMinutes int
}

type APIConfig struct {
	Key string
}

type NotificationConfig struct {
	CredentialsFile string
	ProductTopic    string
	StockToken      string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_CATEGORY_TTL_MINUTES", 10)
	viper.SetDefault("NOTIFY_PRODUCT_TOPIC", "products")
	// Placeholder token. Per-subscriber token resolution lives outside
	// this service; override per deployment.
	viper.SetDefault("NOTIFY_STOCK_TOKEN", "stock-subscriber-token")
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", 120)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			CategoryTTLMinutes: viper.GetInt("CACHE_CATEGORY_TTL_MINUTES"),
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
		Notifications: NotificationConfig{
			CredentialsFile: viper.GetString("NOTIFY_CREDENTIALS_FILE"),
			ProductTopic:    viper.GetString("NOTIFY_PRODUCT_TOPIC"),
			StockToken:      viper.GetString("NOTIFY_STOCK_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: viper.GetInt("RATE_LIMIT_REQUESTS_PER_MINUTE"),
		},
	}
}
