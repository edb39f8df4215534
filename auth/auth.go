package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/ayyaapp/ayya/config"
	"github.com/ayyaapp/ayya/helper"
	"github.com/yaoapp/kun/log"
)

// RoleAdmin the bearer token role allowed to export
const RoleAdmin = "admin"

// Authorizer decides whether a request carries a valid admin session
type Authorizer interface {
	IsAdmin(r *http.Request) bool
}

// AuthorizerFunc adapts a function to Authorizer
type AuthorizerFunc func(r *http.Request) bool

// IsAdmin call the function
func (fn AuthorizerFunc) IsAdmin(r *http.Request) bool {
	return fn(r)
}

// Admin the single configured administrator. A session is the cookie holding
// hex(HMAC-SHA256(secret, "email:password")), or a bearer JWT with the admin role.
type Admin struct {
	email     string
	password  string
	secret    []byte
	jwtSecret []byte
	cookie    string
	secure    bool
	ttl       time.Duration
}

// NewAdmin create the admin authorizer
func NewAdmin(cfg config.Admin) *Admin {
	cookie := cfg.Cookie
	if cookie == "" {
		cookie = "ayya_admin_auth"
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Admin{
		email:     cfg.Email,
		password:  cfg.Password,
		secret:    []byte(cfg.Secret),
		jwtSecret: []byte(cfg.JWTSecret),
		cookie:    cookie,
		secure:    cfg.SecureCookie,
		ttl:       ttl,
	}
}

// Configured reports whether admin credentials are set
func (admin *Admin) Configured() bool {
	return admin.email != "" && admin.password != ""
}

// SessionToken the cookie value of a signed-in admin
func (admin *Admin) SessionToken() string {
	mac := hmac.New(sha256.New, admin.secret)
	mac.Write([]byte(admin.email + ":" + admin.password))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate check the login credentials
func (admin *Admin) Validate(email, password string) bool {
	if !admin.Configured() {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(admin.email)) == 1
	passwordOK := helper.PasswordValidate(password, admin.password)
	return emailOK && passwordOK
}

// IsAdmin reports whether the request holds the admin cookie or an admin bearer token
func (admin *Admin) IsAdmin(r *http.Request) bool {
	if !admin.Configured() {
		return false
	}

	if cookie, err := r.Cookie(admin.cookie); err == nil && cookie.Value != "" {
		if hmac.Equal([]byte(cookie.Value), []byte(admin.SessionToken())) {
			return true
		}
	}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") || len(admin.jwtSecret) == 0 {
		return false
	}

	claims, err := helper.JwtValidate(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), helper.JwtOption{}, admin.jwtSecret)
	if err != nil {
		log.Trace("[Auth] bearer token: %s", err.Error())
		return false
	}
	return claims.Role == RoleAdmin
}

// Issue sign an admin bearer token valid for ttl
func (admin *Admin) Issue(ttl time.Duration) (helper.JwtToken, error) {
	return helper.JwtMake(RoleAdmin, helper.JwtOption{Subject: admin.email, Timeout: ttl}, admin.jwtSecret)
}

// SetCookie start the admin session on the response
func (admin *Admin) SetCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     admin.cookie,
		Value:    admin.SessionToken(),
		Path:     "/",
		MaxAge:   int(admin.ttl.Seconds()),
		HttpOnly: true,
		Secure:   admin.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie end the admin session on the response
func (admin *Admin) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     admin.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   admin.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
