package auth

import (
	"fmt"
	"time"

	"github.com/campushub/cafe/internal/enum"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identify a gateway session. The backend session itself lives in the
// session's cookie jar; the token only points at it.
type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	jwt.RegisteredClaims
}

// RoleValue parses the role claim. Unknown roles fall back to RoleUser.
func (c *Claims) RoleValue() enum.Role {
	role, _ := enum.ParseRole(c.Role)
	return role
}

func GenerateToken(secret string, sessionID uuid.UUID, username string, role enum.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		Username:  username,
		Role:      role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
