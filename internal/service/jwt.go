package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/videotube/config"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// JWTService issues and verifies both token kinds. Each kind has its own secret, so a
// refresh token never verifies as an access token and vice versa.
type JWTService struct {
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		accessSecret:  []byte(cfg.AccessSecret),
		accessTTL:     cfg.AccessExpiry,
		refreshSecret: []byte(cfg.RefreshSecret),
		refreshTTL:    cfg.RefreshExpiry,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}
}

func (s *JWTService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *JWTService) RefreshTTL() time.Duration { return s.refreshTTL }

// GenerateAccessToken creates the short-lived token carrying the user's public identity
func (s *JWTService) GenerateAccessToken(user *model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"fullname": user.Fullname,
		"typ":      tokenTypeAccess,
		"iss":      s.issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates the long-lived token. The jti makes every issued token unique
// even when two are minted for the same user within one second.
func (s *JWTService) GenerateRefreshToken(userID uint) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"typ":     tokenTypeRefresh,
		"jti":     uuid.NewString(),
		"iss":     s.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(s.refreshTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken returns the user id of a valid access token.
func (s *JWTService) ValidateAccessToken(tokenString string) (uint, error) {
	userID, err := s.parse(tokenString, s.accessSecret, tokenTypeAccess)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.WrapError(apperrors.ErrTokenExpired, err)
		}
		return 0, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}
	return userID, nil
}

// ValidateRefreshToken returns the user id of a refresh token with a valid signature and expiry.
// Whether it is still the current one is decided against the credential store.
func (s *JWTService) ValidateRefreshToken(tokenString string) (uint, error) {
	userID, err := s.parse(tokenString, s.refreshSecret, tokenTypeRefresh)
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInvalidRefreshToken, err)
	}
	return userID, nil
}

func (s *JWTService) parse(tokenString string, secret []byte, wantType string) (uint, error) {
	if tokenString == "" {
		return 0, errors.New("empty token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}

	if typ, _ := claims["typ"].(string); typ != wantType {
		return 0, errors.New("unexpected token type")
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, errors.New("invalid user id claim")
	}

	return uint(rawID), nil
}

// HashRefreshToken returns the hex SHA-256 of a refresh token. The digest is deterministic so the
// stored value can be compared inside a single UPDATE.
func HashRefreshToken(refreshToken string) string {
	sum := sha256.Sum256([]byte(refreshToken))
	return hex.EncodeToString(sum[:])
}
