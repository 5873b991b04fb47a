// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sharegarden/config"
	"sharegarden/internal/domain/entity"
	domainerrors "sharegarden/internal/domain/errors"
	"sharegarden/internal/domain/service"
	"sharegarden/internal/errors"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string        // Secret key for signing access tokens.
	refreshSecret string        // Secret key for signing refresh tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     cfg.Auth.AccessTokenTTL,
		refreshTTL:    cfg.Auth.RefreshTokenTTL,
	}, nil
}

// IssueAccessToken mints a short-lived token carrying the role/username
// snapshot for stateless authorization.
func (s *jwtService) IssueAccessToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		// The subject is the stringified user id; the original API encodes
		// it as a string-typed claim and clients depend on that.
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.accessTTL).Unix(),
		"type":     tokenTypeAccess,
		"role":     user.Role.String(),
		"username": user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.accessSecret))
}

// IssueRefreshToken mints a long-lived token carrying only the subject.
func (s *jwtService) IssueRefreshToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.refreshTTL).Unix(),
		"type": tokenTypeRefresh,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.refreshSecret))
}

// VerifyAccess validates an access token and extracts the principal.
func (s *jwtService) VerifyAccess(tokenString string) (*service.Principal, error) {
	claims, err := s.parse(tokenString, s.accessSecret, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	userID, err := subjectID(claims)
	if err != nil {
		return nil, err
	}

	role, _ := claims["role"].(string)
	username, _ := claims["username"].(string)
	if !entity.Role(role).IsValid() || username == "" {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("access token is missing identity claims")
	}

	return &service.Principal{
		UserID:   userID,
		Role:     entity.Role(role),
		Username: username,
	}, nil
}

// VerifyRefresh validates a refresh token and extracts the subject id.
func (s *jwtService) VerifyRefresh(tokenString string) (uint, error) {
	claims, err := s.parse(tokenString, s.refreshSecret, tokenTypeRefresh)
	if err != nil {
		return 0, err
	}

	return subjectID(claims)
}

// parse checks signature, expiry and token flavor against one secret.
func (s *jwtService) parse(tokenString, secret, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("token past its expiry")
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token failed verification")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token claims are unreadable")
	}

	// A refresh token presented where an access token is required (or the
	// reverse) is rejected, not silently accepted.
	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("wrong token flavor for this endpoint")
	}

	return claims, nil
}

func subjectID(claims jwt.MapClaims) (uint, error) {
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, domainerrors.ErrTokenInvalid.WrapMessage("subject claim is not a user id")
	}

	return uint(id), nil
}
