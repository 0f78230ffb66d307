package auth

import (
	"errors"
	"os"
	"time"

	"cloverlink.io/infrastructure/logger"
	"github.com/golang-jwt/jwt/v4"
)

// The state parameter ties a callback to a login this process initiated.
// Ten minutes covers the provider round trip comfortably.
const stateLifetime = 10 * time.Minute

func stateSigningKey() []byte {
	secret := os.Getenv("STATE_SIGNING_SECRET")
	if secret == "" {
		// Fall back to the client secret so the flow still works on minimal
		// deployments. Set STATE_SIGNING_SECRET to rotate independently.
		secret = os.Getenv("CLOVER_CLIENT_SECRET")
	}
	return []byte(secret)
}

func GenerateStateToken() (*string, error) {
	now := time.Now()
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"intent": "oauth_state",
		"iat":    now.Unix(),
		"exp":    now.Add(stateLifetime).Unix(),
	}).SignedString(stateSigningKey())
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

func VerifyStateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected state signing method")
		}
		return stateSigningKey(), nil
	})
	if err != nil {
		logger.Error("error decoding state token", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	if !token.Valid {
		return errors.New("invalid state token used")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["intent"] != "oauth_state" {
		return errors.New("state token has the wrong intent")
	}
	return nil
}
