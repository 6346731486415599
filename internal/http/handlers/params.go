package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
	"github.com/tbourn/tutor-admin-backend/internal/http/middleware"
	"github.com/tbourn/tutor-admin-backend/internal/utils"
)

// pathID parses the named path parameter as a positive int64.
func pathID(c *gin.Context, name string) (int64, error) {
	id, valid := utils.ParseID(c.Param(name))
	if !valid {
		return 0, domain.InvalidInput(msgInvalidID)
	}
	return id, nil
}

// bindJSON decodes the body into dst. Any decode or validation failure is
// reported with the same fixed message.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.LoggerFrom(c).Debug().Err(err).Msg("bind json")
		return domain.InvalidInput(msgInvalidJSON)
	}
	return nil
}

// idemKey returns the validated Idempotency-Key, or "" when none was sent.
func idemKey(c *gin.Context) string {
	k, _ := middleware.GetIdempotencyKey(c)
	return k
}

// markReplay flags a create answered from an earlier Idempotency-Key.
func markReplay(c *gin.Context, replayed bool) {
	if !replayed {
		return
	}
	middleware.MarkReplay(c)
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
}

func deletedMessage(n int64) string {
	return fmt.Sprintf("Deleted %d record(s)", n)
}
