package credstore

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// TokenExpired inspects a bearer token's exp claim without verifying its
// signature; the server owns verification. Opaque (non-JWT) tokens and
// tokens without an exp claim are treated as live — the server will reject
// them if it disagrees.
func TokenExpired(raw string, now time.Time) bool {
	parser := gojwt.NewParser(gojwt.WithoutClaimsValidation())

	claims := gojwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now)
}
