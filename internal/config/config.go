package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 全局配置
type Config struct {
	// 服务
	ServerPort string

	// 数据库
	DBDriver string // "sqlite" | "postgres"
	DBDSN    string

	// JWT
	JWTSecret string

	// 快照缓存
	CacheProvider string // "memory" | "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// 对象存储
	StorageProvider string // "s3" | "local"
	StorageBucket   string
	StorageRegion   string
	StorageAccess   string
	StorageSecret   string
	StorageCDN      string
	StorageBasePath string
	StorageLocalDir string
}

// Load 加载配置，本地开发优先读取 .env
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("加载 .env 失败: %v", err)
		}
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", "seller_panel.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CacheProvider: getEnv("CACHE_PROVIDER", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		StorageProvider: getEnv("STORAGE_PROVIDER", "local"),
		StorageBucket:   getEnv("AWS_BUCKET", ""),
		StorageRegion:   getEnv("AWS_REGION", ""),
		StorageAccess:   getEnv("AWS_ACCESS_KEY_ID", ""),
		StorageSecret:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		StorageCDN:      getEnv("AWS_CDN_DOMAIN", ""),
		StorageBasePath: getEnv("STORAGE_BASE_PATH", "seller-panel"),
		StorageLocalDir: getEnv("STORAGE_LOCAL_DIR", "./uploads"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
