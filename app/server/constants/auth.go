package constants

import "time"

// AuthTokenDuration is the fixed lifetime of an issued session token.
const AuthTokenDuration = 7 * 24 * time.Hour
