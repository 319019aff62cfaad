package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookie = "ordertaking_session"

// Authenticator checks the single administrative account and issues signed
// session tokens for it.
type Authenticator struct {
	username string
	hash     []byte
	secret   []byte
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

// AuthConfig configures an Authenticator.
type AuthConfig struct {
	Username string
	Password string
	// Secret signs session tokens (HS256).
	Secret []byte
	TTL    time.Duration
	// Secure marks the session cookie HTTPS-only.
	Secure bool
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

// NewAuthenticator hashes the configured password and returns an Authenticator.
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	if strings.TrimSpace(cfg.Username) == "" {
		return nil, errors.New("admin username is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("admin password is required")
	}
	if len(cfg.Secret) < 16 {
		return nil, errors.New("session secret must be at least 16 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	cost := cfg.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Authenticator{
		username: cfg.Username,
		hash:     hash,
		secret:   cfg.Secret,
		ttl:      cfg.TTL,
		secure:   cfg.Secure,
		now:      time.Now,
	}, nil
}

// Check reports whether the credentials belong to the administrative account.
func (a *Authenticator) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return userOK && passOK
}

// Issue returns a signed session token for username.
func (a *Authenticator) Issue(username string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Verify validates a session token and returns its subject.
func (a *Authenticator) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", fmt.Errorf("verify session: %w", err)
	}
	if claims.Subject != a.username {
		return "", errors.New("verify session: unknown subject")
	}
	return claims.Subject, nil
}

type userKey struct{}

func currentUser(ctx context.Context) string {
	user, _ := ctx.Value(userKey{}).(string)
	return user
}

func isPublicPath(path string) bool {
	return path == "/login" || path == "/healthz" || strings.HasPrefix(path, "/static/")
}

// requireSession redirects requests without a valid session to the login page.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			redirect(w, r, "/login")
			return
		}
		user, err := s.auth.Verify(c.Value)
		if err != nil {
			s.logger.Debug("rejected session", zap.String("request_id", requestID(r.Context())), zap.Error(err))
			clearSession(w, s.auth.secure)
			redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

type loginData struct {
	Error  bool
	Logout bool
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.render(w, r, http.StatusOK, "login", page{
		Title: "Sign in",
		Data:  loginData{Error: q.Has("error"), Logout: q.Has("logout")},
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.badRequest(w, r, "The form could not be read.")
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	if !s.auth.Check(username, r.PostForm.Get("password")) {
		s.logger.Info("login failed", zap.String("request_id", requestID(r.Context())), zap.String("username", username))
		redirect(w, r, "/login?error")
		return
	}
	token, err := s.auth.Issue(username)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.auth.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.auth.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("login", zap.String("request_id", requestID(r.Context())), zap.String("username", username))
	redirect(w, r, "/customers")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	clearSession(w, s.auth.secure)
	redirect(w, r, "/login?logout")
}

func clearSession(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
