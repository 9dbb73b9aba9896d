package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourusername/reserved/db"
	"go.uber.org/zap"
)

// DBPing checks the Postgres pool backing the cache store before proceeding
// and reconnects when the connection was lost.
func DBPing(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Warnw("database ping failed, reconnecting", "error", err)
			if reconErr := db.Reconnect(); reconErr != nil {
				log.Errorw("database reconnect failed", "error", reconErr)
				return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Database connection is down",
				})
			}
			log.Infow("reconnected to the database")
		}
		return c.Next()
	}
}
