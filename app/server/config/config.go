package config

type Config struct {
	System struct {
		IsProd                bool   // production switches zap to its production config
		Listen                string // listen address, e.g. ":5000"
		DBConnectionString    string // postgres DSN
		RedisConnectionString string // redis URL; empty disables the read cache
		UploadDir             string // directory holding stored featured images
	}
	Security struct {
		JWTSecret string // HMAC key for session tokens; rotating it invalidates issued tokens
	}
	Admin struct {
		Username string // seeded admin account, created on first boot only
		Password string
	}
}
