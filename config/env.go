// Package config loads application settings from the environment.
//
// Settings come from three layers, later layers winning: built-in defaults,
// a .env file (loaded via godotenv), and the process environment. Call
// config.Load() once at startup; every getter calls it lazily anyway.
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort      = "8080"
	defaultAppEnv       = "local"
	defaultMongoURI     = "mongodb://localhost:27017"
	defaultMongoDB      = "storefront"
	defaultRedisAddr    = "localhost:6379"
	defaultJWTSecret    = "change-me-in-production"
	defaultClientOrigin = "http://localhost:5173"
)

var (
	loadOnce sync.Once

	mu     sync.RWMutex
	values = defaultValues()
)

func defaultValues() map[string]string {
	return map[string]string{
		"APP_PORT":       defaultAppPort,
		"APP_ENV":        defaultAppEnv,
		"MONGO_URI":      defaultMongoURI,
		"MONGO_DB":       defaultMongoDB,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"JWT_SECRET":     defaultJWTSecret,
		"CLIENT_ORIGIN":  defaultClientOrigin,
	}
}

// Load reads .env (if present) and overlays the process environment.
// Safe to call repeatedly; only the first call does work.
func Load() error {
	loadOnce.Do(func() {
		loaded := defaultValues()

		if env, err := godotenv.Read(".env"); err == nil {
			for k, v := range env {
				key := strings.ToUpper(strings.TrimSpace(k))
				if key != "" {
					loaded[key] = strings.TrimSpace(v)
				}
			}
		}

		for _, kv := range os.Environ() {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				continue
			}
			if _, known := loaded[k]; known || strings.HasPrefix(k, "SMS_") ||
				strings.HasPrefix(k, "MAIL_") || strings.HasPrefix(k, "S3_") ||
				strings.HasPrefix(k, "STORAGE_") || strings.HasPrefix(k, "MONGO_") {
				loaded[k] = v
			}
		}

		mu.Lock()
		values = loaded
		mu.Unlock()
	})
	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if v := strings.TrimSpace(values[key]); v != "" {
		return v
	}
	return fallback
}

// Get reads any config key by name with a fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }
func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }

func MongoURI() string      { _ = Load(); return get("MONGO_URI", defaultMongoURI) }
func MongoDatabase() string { _ = Load(); return get("MONGO_DB", defaultMongoDB) }

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

func JWTSecret() string { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }

// ClientOrigin is the browser origin allowed to send credentialed requests.
func ClientOrigin() string { _ = Load(); return get("CLIENT_ORIGIN", defaultClientOrigin) }

// ── OTP delivery ─────────────────────────────────────────────────────────────

func SMSGatewayURL() string {
	_ = Load()
	return get("SMS_GATEWAY_URL", "https://www.fast2sms.com/dev/bulkV2")
}
func SMSAPIKey() string { _ = Load(); return get("SMS_API_KEY", "") }

func MailHost() string     { _ = Load(); return get("MAIL_HOST", "smtp.mailtrap.io") }
func MailPort() string     { _ = Load(); return get("MAIL_PORT", "587") }
func MailUsername() string { _ = Load(); return get("MAIL_USERNAME", "") }
func MailPassword() string { _ = Load(); return get("MAIL_PASSWORD", "") }
func MailFrom() string     { _ = Load(); return get("MAIL_FROM", "care@vanyajewels.in") }
func MailFromName() string { _ = Load(); return get("MAIL_FROM_NAME", "Vanya Jewels") }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDisk() string      { _ = Load(); return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { _ = Load(); return get("STORAGE_LOCAL_ROOT", "public/uploads") }
func StorageURL() string       { _ = Load(); return get("STORAGE_URL", "http://localhost:8080/uploads") }

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "ap-south-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }
