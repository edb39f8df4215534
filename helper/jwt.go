package helper

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// JwtClaims admin bearer token claims
type JwtClaims struct {
	Role string `json:"role"`
	SID  string `json:"sid"`
	jwt.RegisteredClaims
}

// JwtToken a signed token
type JwtToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// JwtOption token settings, zero values take the defaults
type JwtOption struct {
	Subject  string        // Default "Admin Token"
	Audience string        // Default "ayya-admin"
	Issuer   string        // Default "ayya"
	Timeout  time.Duration // Default one hour
	SID      string        // Default a new uuid
}

// JwtValidate parse and verify an HS256 token, the issuer and audience must match the option
func JwtValidate(tokenString string, option JwtOption, secret []byte) (*JwtClaims, error) {

	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret is not set")
	}

	token, err := jwt.ParseWithClaims(tokenString, &JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*JwtClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	option = option.withDefaults()
	if !claims.VerifyIssuer(option.Issuer, true) {
		return nil, fmt.Errorf("invalid token: unexpected issuer %s", claims.Issuer)
	}
	if !claims.VerifyAudience(option.Audience, true) {
		return nil, fmt.Errorf("invalid token: unexpected audience %v", claims.Audience)
	}
	return claims, nil
}

// JwtMake sign a token for the role
func JwtMake(role string, option JwtOption, secret []byte) (JwtToken, error) {

	if len(secret) == 0 {
		return JwtToken{}, fmt.Errorf("jwt secret is not set")
	}

	option = option.withDefaults()
	sid := option.SID
	if sid == "" {
		sid = uuid.NewString()
	}

	now := time.Now()
	expiresAt := now.Add(option.Timeout)
	claims := &JwtClaims{
		Role: role,
		SID:  sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   option.Subject,
			Audience:  jwt.ClaimStrings{option.Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    option.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return JwtToken{}, fmt.Errorf("jwt make: %w", err)
	}

	return JwtToken{Token: tokenString, ExpiresAt: expiresAt.Unix()}, nil
}

func (option JwtOption) withDefaults() JwtOption {
	if option.Subject == "" {
		option.Subject = "Admin Token"
	}
	if option.Audience == "" {
		option.Audience = "ayya-admin"
	}
	if option.Issuer == "" {
		option.Issuer = "ayya"
	}
	if option.Timeout == 0 {
		option.Timeout = time.Hour
	}
	return option
}
