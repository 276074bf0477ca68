package jwtPkg

import (
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"os"
	"strings"
	"time"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
	EducatorLocalKey  = "educator"
)

var (
	ErrSecretNotSet    = errors.New("JWT secret not configured")
	ErrEmptyHeader     = errors.New("empty Authorization header")
	ErrInvalidFormat   = errors.New("invalid Authorization format")
	ErrMissingEducator = errors.New("token has no educator subject")
	ErrNoEducatorOnCtx = errors.New("no educator on request")
)

type EducatorClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func Sign(username string, expiresIn time.Duration) (string, int64, error) {
	secret := os.Getenv(AccessTokenSecret)
	if secret == "" {
		return "", 0, ErrSecretNotSet
	}

	expiresAt := time.Now().Add(expiresIn)
	claims := EducatorClaims{
		Username: username,
		Role:     "educator",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

func Verify(accessToken string) (*EducatorClaims, error) {
	secret := os.Getenv(AccessTokenSecret)
	if secret == "" {
		return nil, ErrSecretNotSet
	}

	claims := &EducatorClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims.Username == "" {
		return nil, ErrMissingEducator
	}

	return claims, nil
}

func VerifyTokenHeader(c *fiber.Ctx) (*EducatorClaims, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, ErrEmptyHeader
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(accessToken) == "" {
		return nil, ErrInvalidFormat
	}

	return Verify(strings.TrimSpace(accessToken))
}

func GetEducator(c *fiber.Ctx) (*EducatorClaims, error) {
	claims, ok := c.Locals(EducatorLocalKey).(*EducatorClaims)
	if !ok {
		return nil, ErrNoEducatorOnCtx
	}
	return claims, nil
}
