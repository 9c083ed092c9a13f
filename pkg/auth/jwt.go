package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Роли пользователей в токене
const (
	RolePlayer = "player"
	RoleOwner  = "owner"
)

var (
	// ErrInvalidToken возвращается при невалидном или просроченном токене
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrInvalidSubject возвращается, когда sub не является числовым ID
	ErrInvalidSubject = errors.New("auth: invalid subject claim")
)

// Claims клеймы access-токена
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CreateAccessToken выпускает HS256 access-токен для пользователя
func CreateAccessToken(secret []byte, userID int64, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseValidate проверяет подпись и срок действия токена, возвращает userID и роль
func ParseValidate(secret []byte, tokenStr string) (int64, string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return 0, "", ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", ErrInvalidSubject
	}

	return userID, claims.Role, nil
}
