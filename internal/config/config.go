package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DatabaseURL string

	JWTPrivateKey *rsa.PrivateKey
	JWTPublicKey  *rsa.PublicKey
	SessionTTL    time.Duration
	CookieSecure  bool
	BcryptCost    int

	RedisAddress    string
	RedisPassword   string
	SubjectCacheTTL time.Duration

	DirectoryServiceURL    string
	NotificationServiceURL string
	LinkageServiceURL      string

	VerificationCodeTTL          time.Duration
	VerificationCodeWindow       time.Duration
	VerificationCodeMaxPerWindow int

	CORSAllowedOrigins []string
}

// Load reads the API configuration from the environment (and a .env file when
// present). It panics when a required value is missing or a key cannot be read.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := fromEnv()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	return cfg
}

func fromEnv() (*Config, error) {
	privateKey, err := loadPrivateKey(envString("PRIVATE_KEY_PATH", "/etc/certs/private.pem"))
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}

	publicKey, err := loadPublicKey(envString("PUBLIC_KEY_PATH", "/etc/certs/public.pem"))
	if err != nil {
		return nil, fmt.Errorf("load public key: %w", err)
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		return nil, errors.New("DB_CONNECTION_STRING environment variable is required")
	}

	return &Config{
		AppEnv:        envString("APP_ENV", "production"),
		Port:          envString("PORT", "8080"),
		DatabaseURL:   dbURL,
		JWTPrivateKey: privateKey,
		JWTPublicKey:  publicKey,
		SessionTTL:    envDuration("SESSION_TTL", 10*time.Hour),
		CookieSecure:  envBool("COOKIE_SECURE", true),
		BcryptCost:    envInt("BCRYPT_COST", 10),

		RedisAddress:    envString("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:   envString("REDIS_PASSWORD", ""),
		SubjectCacheTTL: envDuration("SUBJECT_CACHE_TTL", 0),

		DirectoryServiceURL:    envString("DIRECTORY_SERVICE_URL", "http://localhost:5003"),
		NotificationServiceURL: envString("NOTIFICATION_SERVICE_URL", "http://localhost:5001"),
		LinkageServiceURL:      envString("LINKAGE_SERVICE_URL", "http://localhost:5004"),

		VerificationCodeTTL:          envDuration("VERIFICATION_CODE_TTL", 10*time.Minute),
		VerificationCodeWindow:       envDuration("VERIFICATION_CODE_WINDOW", time.Hour),
		VerificationCodeMaxPerWindow: envInt("VERIFICATION_CODE_MAX_PER_WINDOW", 5),

		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return privateKey, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
