package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/drugscope/drugscope/internal/job"
)

// stream pushes the job's event sequence over SSE until a terminal
// status, poll-budget exhaustion, or client disconnect.
func (h *JobsHandler) stream(c echo.Context) error {
	return h.streamJob(c, c.Param("id"))
}

// submitAndStream creates the job and immediately attaches the event
// stream, saving single-page clients a second request.
func (h *JobsHandler) submitAndStream(c echo.Context) error {
	var req SubmitJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}
	id := h.Registry.Submit(req.Query, req.Options.Resolve())
	return h.streamJob(c, id)
}

func (h *JobsHandler) streamJob(c echo.Context, jobID string) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	flusher, ok := resp.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "streaming unsupported")
	}

	emit := func(ev job.StreamEvent) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	ctx := c.Request().Context()
	return job.StreamJob(ctx, h.Registry, h.Broadcaster, h.Stream, jobID, emit)
}
