package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable time function
// for deterministic tests. Not for production use; NewJWTService enforces
// configuration validation that this constructor bypasses.
func NewTestJWTService(secret string, tokenLifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        tokenLifetime,
		refreshTokenLifetime: tokenLifetime * 24,
		timeFunc:             timeFunc,
		clockSkew:            0,
	}
}
