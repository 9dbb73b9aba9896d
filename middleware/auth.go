package middleware

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims identify the operator allowed to mutate the reserved list.
type Claims struct {
	OperatorID uuid.UUID `json:"operator_id"`
	Name       string    `json:"name"`
	jwt.RegisteredClaims
}

func getJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "reserved-default-secret-change-in-production"
	}
	return secret
}

func GenerateToken(operatorID uuid.UUID, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	claims := Claims{
		OperatorID: operatorID,
		Name:       name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   operatorID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(getJWTSecret()))
}

func parseToken(tokenString string) (*Claims, bool) {
	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(getJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	return claims, ok
}

func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Get("Authorization")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		claims, ok := parseToken(tokenString)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals("operator_id", claims.OperatorID)
		c.Locals("operator", claims.Name)

		return c.Next()
	}
}

func GetOperatorID(c *fiber.Ctx) uuid.UUID {
	id, ok := c.Locals("operator_id").(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func GetOperator(c *fiber.Ctx) string {
	name, ok := c.Locals("operator").(string)
	if !ok {
		return ""
	}
	return name
}
