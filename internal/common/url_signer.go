package common

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignedToken is a validated download token
type SignedToken struct {
	Path      string
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

// URLSignerService mints time-limited download links for stored files.
// Links are generated on demand and never persisted.
type URLSignerService struct {
	secretKey []byte
	ttl       time.Duration
	baseURL   string
	now       func() time.Time
}

func NewURLSignerService(secretKey []byte, ttl time.Duration, baseURL string) *URLSignerService {
	return &URLSignerService{
		secretKey: secretKey,
		ttl:       ttl,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

// GeneratePresignedURL returns a /files/{token} link for path, issued to userID
func (s *URLSignerService) GeneratePresignedURL(path string, userID uint) (string, time.Time, error) {
	tokenID := uuid.New().String()
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.MapClaims{
		"path":    path,
		"user_id": userID,
		"jti":     tokenID,
		"exp":     expiresAt.Unix(),
		"iat":     issuedAt.Unix(),
	}

	// Sign with HMAC
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return s.baseURL + "/files/" + url.PathEscape(tokenString), expiresAt, nil
}

// ValidateToken validates a presigned URL token
func (s *URLSignerService) ValidateToken(tokenString string) (*SignedToken, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	path, ok := claims["path"].(string)
	if !ok || path == "" {
		return nil, errors.New("missing or invalid path claim")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("missing or invalid user_id claim")
	}

	tokenID, _ := claims["jti"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("missing or invalid exp claim")
	}

	return &SignedToken{
		Path:      path,
		UserID:    uint(userID),
		TokenID:   tokenID,
		ExpiresAt: exp.Time,
	}, nil
}
