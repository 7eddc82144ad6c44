package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/oncograph-backend/internal/data/graph"
	"github.com/yungbote/oncograph-backend/internal/http/response"
)

type HealthHandler struct {
	store graph.Store
}

func NewHealthHandler(store graph.Store) *HealthHandler { return &HealthHandler{store: store} }

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		err := h.store.Read(ctx, func(context.Context, graph.Reader) error { return nil })
		if err != nil {
			response.RespondAPIError(c, err, "healthcheck_failed")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
