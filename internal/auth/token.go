package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "order-admin"

// Claims represents JWT session claims. Subject carries the user id.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and checks session tokens.
type TokenGenerator interface {
	GenerateSessionToken(userID int64) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
		now:    time.Now,
	}
}

// GenerateSessionToken signs an HS256 token for userID with a random jti.
func (j *JWTTokenGenerator) GenerateSessionToken(userID int64) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.TTL)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a session token and returns its claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(j.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, internal.ErrInvalidToken
	}

	return claims, nil
}
