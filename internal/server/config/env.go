package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
)

const envPrefix = "GOPHBLOG_"

// parseEnv loads the dotenv file (-env, default ".env") into the process
// environment without overriding variables that are already set, then
// overlays Config from the environment.
//
// PORT, SECRET_KEY and DB_URL are honoured for compatibility with existing
// deployments; the GOPHBLOG_* variables take precedence over them. Empty
// variables are ignored. Malformed numbers, booleans or durations panic.
func parseEnv(config *Config) {
	if err := godotenv.Load(flagx.EnvFileFlags()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if port, ok := lookup("PORT"); ok {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(port, ":")
	}
	if v, ok := lookup("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := lookup("DB_URL"); ok {
		config.DatabaseDSN = v
	}

	envString(&config.EndpointAddrHTTP, "ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	if v, ok := lookup(envPrefix + "PASSWORD_HASH_COST"); ok {
		config.PasswordHashCost = mustAtoi(v)
	}
	if v, ok := lookup(envPrefix + "TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenTTL = d
	}
	envString(&config.CookieName, "COOKIE_NAME")
	if v, ok := lookup(envPrefix + "COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.CookieSecure = b
	}
	envString(&config.CORSOrigin, "CORS_ORIGIN")
	if v, ok := lookup(envPrefix + "LIST_LIMIT"); ok {
		config.ListLimit = mustAtoi(v)
	}
	envString(&config.UploadBackend, "UPLOAD_BACKEND")
	envString(&config.UploadDir, "UPLOAD_DIR")
	if v, ok := lookup(envPrefix + "MAX_UPLOAD_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.MaxUploadSize = n
	}
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.LogLevel, "LOG_LEVEL")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envString(dst *string, key string) {
	if v, ok := lookup(envPrefix + key); ok {
		*dst = v
	}
}

func mustAtoi(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	return n
}
