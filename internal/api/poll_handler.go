package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/geosearch/internal/logger"
)

// Poller is the subset of the ingestion service the poll handler drives.
type Poller interface {
	PollDue(ctx context.Context) error
}

// PollHandler triggers polling runs over HTTP.
type PollHandler struct {
	poller Poller
	logger logger.Interface
}

// NewPollHandler creates a new poll handler.
func NewPollHandler(poller Poller, log logger.Interface) *PollHandler {
	return &PollHandler{poller: poller, logger: log}
}

// TriggerPoll handles POST /api/v1/poll. The run is detached from the
// request context because it outlives the response.
func (h *PollHandler) TriggerPoll(c *gin.Context) {
	go func() {
		if err := h.poller.PollDue(context.Background()); err != nil {
			h.logger.Error("Triggered poll failed", "error", err.Error())
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "Poll triggered"})
}
