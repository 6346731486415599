package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @ID          health
// @Summary     Liveness check with visit counter
// @Description Returns the configured health message followed by the number of earlier health checks.
// @Tags        General
// @Produce     json
// @Success     200  {string}  string  "I'm OK. 0 times"
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, h.state.HealthReport())
}
