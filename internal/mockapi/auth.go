package mockapi

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type contextKey string

const emailKey contextKey = "email"

// tokenSigner выпускает и проверяет подписанные HMAC access-токены вида
// base64(email).expiry.signature.
type tokenSigner struct {
	secretKey []byte
	ttl       time.Duration
}

func newTokenSigner(secret string, ttl time.Duration) *tokenSigner {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &tokenSigner{
		secretKey: key,
		ttl:       ttl,
	}
}

// Sign выпускает access-токен для указанного адреса почты.
func (t *tokenSigner) Sign(email string) string {
	return t.signWithExpiry(email, time.Now().Add(t.ttl))
}

func (t *tokenSigner) signWithExpiry(email string, expiresAt time.Time) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(email))
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	return encoded + "." + exp + "." + t.signature(encoded, exp)
}

// Parse проверяет подпись и срок действия токена и возвращает адрес почты.
func (t *tokenSigner) Parse(tokenStr string) (string, bool) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return "", false
	}

	encoded, exp, signature := parts[0], parts[1], parts[2]
	expected := t.signature(encoded, exp)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", false
	}

	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil || time.Now().Unix() > expUnix {
		return "", false
	}

	email, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(email), true
}

func (t *tokenSigner) signature(encoded, exp string) string {
	mac := hmac.New(sha256.New, t.secretKey)
	mac.Write([]byte(encoded + "." + exp))
	return hex.EncodeToString(mac.Sum(nil))
}

// authMiddleware проверяет access-токен из заголовка Authorization и
// добавляет адрес почты пользователя в контекст запроса.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := s.signer.Parse(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "jwt expired")
			return
		}

		ctx := context.WithValue(r.Context(), emailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func emailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}
