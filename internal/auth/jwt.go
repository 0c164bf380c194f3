package auth

import (
	"errors"
	"os"
	"time"

	"team-task-board/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// The signing settings are resolved on each use rather than at package init,
// so values supplied through a .env file loaded during config.Load are
// honored.
func jwtSecret() []byte {
	return []byte(getEnv("JWT_SECRET", "development-insecure-secret-change-me"))
}

func jwtIssuer() string {
	return getEnv("JWT_ISSUER", "team-task-board")
}

func jwtAudience() string {
	return getEnv("JWT_AUDIENCE", "team-task-board-clients")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Claims represents the JWT claims
type Claims struct {
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken generates a JWT token for the given user. The token carries
// a unique id (jti) which doubles as the session id in the session registry.
func GenerateToken(user models.User) (string, string, error) {
	tokenID := uuid.NewString()
	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    jwtIssuer(),
			Audience:  jwt.ClaimStrings{jwtAudience()},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret())

	if err != nil {
		return "", "", err
	}

	return tokenString, tokenID, nil
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}

		return jwtSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		// Validate issuer and audience
		if claims.Issuer != jwtIssuer() {
			return nil, errors.New("invalid token issuer")
		}
		// Manually check audience for compatibility with jwt v5 types
		audValid := false
		for _, aud := range claims.Audience {
			if aud == jwtAudience() {
				audValid = true
				break
			}
		}
		if !audValid {
			return nil, errors.New("invalid token audience")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
