package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/drugscope/drugscope/internal/job"
)

// JobsHandler serves the research job API.
type JobsHandler struct {
	Registry    *job.Registry
	Broadcaster *job.Broadcaster
	Stream      job.StreamConfig
}

func (h *JobsHandler) Register(g *echo.Group) {
	g.POST("", h.submit)
	g.GET("", h.list)
	g.POST("/stream", h.submitAndStream)
	g.GET("/:id/status", h.status)
	g.GET("/:id/result", h.result)
	g.GET("/:id/stream", h.stream)
	g.DELETE("/:id", h.cancel)
}

func (h *JobsHandler) submit(c echo.Context) error {
	var req SubmitJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}
	id := h.Registry.Submit(req.Query, req.Options.Resolve())
	return c.JSON(http.StatusAccepted, map[string]string{
		"job_id": id,
		"status": "started",
	})
}

func (h *JobsHandler) list(c echo.Context) error {
	limit := 50
	if val := strings.TrimSpace(c.QueryParam("limit")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}
	jobs := h.Registry.List(limit)
	items := make([]map[string]interface{}, 0, len(jobs))
	for _, st := range jobs {
		items = append(items, map[string]interface{}{
			"job_id":     st.JobID,
			"query":      st.Query,
			"status":     st.Status,
			"progress":   st.Progress,
			"created_at": st.CreatedAt,
			"updated_at": st.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"jobs": items})
}

func (h *JobsHandler) status(c echo.Context) error {
	st, ok := h.Registry.Status(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	return c.JSON(http.StatusOK, st)
}

// result returns the synthesized output. It is only available once the
// job reached completed; callers polling early get a 400 with the
// current status so they know to keep waiting.
func (h *JobsHandler) result(c echo.Context) error {
	st, ok := h.Registry.Status(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	if st.Status != job.StatusCompleted {
		return echo.NewHTTPError(http.StatusBadRequest,
			"job not completed yet, current status: "+string(st.Status))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"job_id":        st.JobID,
		"query":         st.Query,
		"final_report":  st.Report,
		"mind_map_data": st.MindMap,
		"results":       st.Results,
	})
}

// cancel is advisory: the pipeline observes the flag at its next step
// boundary. Cancelling an already-finished job succeeds as a no-op.
func (h *JobsHandler) cancel(c echo.Context) error {
	id := c.Param("id")
	if !h.Registry.Cancel(id) {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"job_id": id,
		"status": "cancelled",
	})
}
