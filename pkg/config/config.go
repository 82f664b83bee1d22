package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Chat   ChatConfig
	MinIO  MinIOConfig `mapstructure:"minio"`
	Redis  RedisConfig
	Log    LogConfig
}

type ServerConfig struct {
	Address       string
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// DBConfig 資料庫連線設定，driver 為 postgres 或 sqlite
type DBConfig struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
	Port     int
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
	DSN      string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration `mapstructure:"ttl"`
}

// ChatConfig 即時聊天相關設定
type ChatConfig struct {
	// 每個訂閱者最多保留的未送出訊息數，超過時丟棄最舊的
	Backlog int
	// true 時任何一個連線結束都會移除該用戶的註冊項目
	RemoveOnAnyDisconnect bool          `mapstructure:"remove_on_any_disconnect"`
	ReadLimit             int64         `mapstructure:"read_limit"`
	PongWait              time.Duration `mapstructure:"pong_wait"`
	WriteWait             time.Duration `mapstructure:"write_wait"`
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

// RedisConfig 空的 addr 代表使用記憶體內的 token 撤銷表
type RedisConfig struct {
	Addr     string
	Password string
}

type LogConfig struct {
	Level string
}

// Load 從預設路徑 ./pkg/config 讀取設定，可用 HOTEL_CONFIG 指定檔案
func Load() (*Config, error) {
	if path := strings.TrimSpace(os.Getenv("HOTEL_CONFIG")); path != "" {
		return LoadFile(path)
	}
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./pkg/config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return unmarshal(v)
}

// LoadFile 讀取指定的設定檔
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("HOTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origin", "http://localhost:3000")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "hotel")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.dsn", "hotel.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 8*time.Hour)
	v.SetDefault("chat.backlog", 100)
	v.SetDefault("chat.remove_on_any_disconnect", false)
	v.SetDefault("chat.read_limit", 8192)
	v.SetDefault("chat.pong_wait", 60*time.Second)
	v.SetDefault("chat.write_wait", 10*time.Second)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "minioadmin")
	v.SetDefault("minio.secret_key", "minioadmin")
	v.SetDefault("minio.bucket", "chat-images")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.public_url", "http://localhost:9000")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("log.level", "info")
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
