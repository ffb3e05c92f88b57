package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DBDriver       string // postgres / sqlite
	DatabaseURL    string // あれば最優先（sqliteの場合はファイルパス）
	DBMaxOpenConns int

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // トークン有効期限（7日）

	FEURL string // CORS許可オリジン

	RedisAddr   string // 空ならプロセス内ロック
	RabbitMQURL string // 空ならイベントを送らない

	OrderLockTTL  time.Duration // 注文確定ロックの保持上限
	OrderLockWait time.Duration // ロック待ちの上限

	ServiceName     string
	OtelEnabled     bool
	OtelEndpoint    string // 空ならstdoutに出す
	OtelInsecure    bool
	OtelSampleRatio float64 // 0〜1
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := envInt("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	maxConns, err := envInt("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return Config{}, err
	}
	jwtTTL, err := envDuration("JWT_TTL", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	lockTTL, err := envDuration("ORDER_LOCK_TTL", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	lockWait, err := envDuration("ORDER_LOCK_WAIT", 3*time.Second)
	if err != nil {
		return Config{}, err
	}

	otelEnabled, err := envBool("OTEL_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	otelInsecure, err := envBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	if err != nil {
		return Config{}, err
	}
	sampleRatio, err := envFloat("OTEL_SAMPLER_RATIO", 0.1)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		DBDriver:       getenv("DB_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxOpenConns: maxConns,

		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "marketplace"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    jwtTTL,

		FEURL: getenv("FE_URL", "*"),

		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		OrderLockTTL:  lockTTL,
		OrderLockWait: lockWait,

		ServiceName:     getenv("OTEL_SERVICE_NAME", "marketplace"),
		OtelEnabled:     otelEnabled,
		OtelEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelInsecure:    otelInsecure,
		OtelSampleRatio: sampleRatio,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.OrderLockTTL <= 0 || cfg.OrderLockWait <= 0 {
		return Config{}, fmt.Errorf("ORDER_LOCK_TTL and ORDER_LOCK_WAIT must be positive")
	}
	if cfg.OtelSampleRatio < 0 || cfg.OtelSampleRatio > 1 {
		return Config{}, fmt.Errorf("OTEL_SAMPLER_RATIO must be between 0 and 1")
	}

	return cfg, nil
}

// DATABASE_URL があれば最優先で使う
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "":
		return def, nil
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s must be bool", key)
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return f, nil
}
