package inits

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/KrishSaraf/manj-book/app/server/config"
)

func Config() (*config.Config, error) {
	// A local .env is a convenience for development; env vars win either way.
	_ = godotenv.Load()

	cfg := &config.Config{}

	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":5000"
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	// Redis is optional: without it every read goes straight to the database.
	cfg.System.RedisConnectionString = os.Getenv("REDIS_CONN")

	if uploadDir, exist := os.LookupEnv("UPLOAD_DIR"); !exist {
		cfg.System.UploadDir = "uploads"
	} else {
		cfg.System.UploadDir = uploadDir
	}

	if secret, exist := os.LookupEnv("JWT_SECRET"); !exist {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	} else {
		cfg.Security.JWTSecret = secret
	}

	if username, exist := os.LookupEnv("ADMIN_USERNAME"); !exist {
		cfg.Admin.Username = "admin"
	} else {
		cfg.Admin.Username = username
	}

	if password, exist := os.LookupEnv("ADMIN_PASSWORD"); !exist {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable not set")
	} else {
		cfg.Admin.Password = password
	}

	return cfg, nil
}
