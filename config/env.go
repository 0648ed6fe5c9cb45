package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultMongoDB       = "supermart"
	defaultRedisAddr     = "localhost:6379"
	defaultSessionSecret = "change-me-in-production"
	defaultAppPort       = "3000"
	defaultAppEnv        = "local"
	defaultBaseURL       = "http://localhost:3000"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":            "",
		"MONGO_DB":             defaultMongoDB,
		"REDIS_ADDR":           defaultRedisAddr,
		"REDIS_PASSWORD":       "",
		"SESSION_SECRET":       defaultSessionSecret,
		"SESSION_TTL_HOURS":    "2",
		"GITHUB_CLIENT_ID":     "",
		"GITHUB_CLIENT_SECRET": "",
		"BASE_URL":             defaultBaseURL,
		"APP_PORT":             defaultAppPort,
		"APP_ENV":              defaultAppEnv,
		"LOG_MONGO":            "",
		"MAX_BODY_BYTES":       "",
	}
}

// MongoURI returns the MongoDB connection string. It has no default: the
// server refuses to start without it.
func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", "")
}

func MongoDB() string {
	_ = Load()
	return get("MONGO_DB", defaultMongoDB)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

// SessionSecret signs session material and API tokens, and derives the
// AES key used for the OAuth state parameter.
func SessionSecret() string {
	_ = Load()
	return get("SESSION_SECRET", defaultSessionSecret)
}

func SessionTTL() time.Duration {
	_ = Load()
	hours, err := strconv.Atoi(get("SESSION_TTL_HOURS", "2"))
	if err != nil || hours <= 0 {
		hours = 2
	}
	return time.Duration(hours) * time.Hour
}

func GithubClientID() string {
	_ = Load()
	return get("GITHUB_CLIENT_ID", "")
}

func GithubClientSecret() string {
	_ = Load()
	return get("GITHUB_CLIENT_SECRET", "")
}

// BaseURL is the externally visible origin, used to build the OAuth
// callback URL handed to GitHub.
func BaseURL() string {
	_ = Load()
	return strings.TrimRight(get("BASE_URL", defaultBaseURL), "/")
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// LogMongo reports whether log records should also be written to MongoDB.
func LogMongo() bool {
	_ = Load()
	v := strings.ToLower(get("LOG_MONGO", ""))
	return v == "1" || v == "true"
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	// Real environment variables win over files.
	for key := range loaded {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			loaded[key] = v
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a config value at runtime. Intended for tests.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	values[strings.ToUpper(key)] = value
}
