package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/drugscope/drugscope/internal/docindex"
)

// DocumentsHandler serves uploads into the company document index.
type DocumentsHandler struct {
	Index *docindex.Index
}

func (h *DocumentsHandler) Register(g *echo.Group) {
	g.POST("", h.upload)
	g.GET("", h.list)
}

func (h *DocumentsHandler) upload(c echo.Context) error {
	var req UploadDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Filename) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "filename required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text required")
	}
	doc, err := h.Index.Add(req.Filename, req.Text)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "indexing document: "+err.Error())
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *DocumentsHandler) list(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"documents": h.Index.List(),
	})
}
