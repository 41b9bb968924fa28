// Package rest provides the HTTP handlers for feed-hub.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"feed-hub/domain"
	"feed-hub/usecase"
)

// PublishRequest represents the request body for publishing an item.
type PublishRequest struct {
	// Content is the opaque item payload.
	Content string `json:"content"`
	// ID is optional; when present an existing item with that ID is
	// edited, otherwise a fresh ID is generated.
	ID string `json:"id,omitempty"`
}

// PublishResponse represents the response for publishing an item.
type PublishResponse struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Edited  bool     `json:"edited"`
	Evicted []string `json:"evicted,omitempty"`
}

// IDsResponse represents the ordered ID listing of a feed.
type IDsResponse struct {
	IDs []string `json:"ids"`
}

// ItemResponse represents a single item.
type ItemResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// FeedHandler handles feed publish/retract/read requests.
type FeedHandler struct {
	registry *usecase.Registry
	logger   *slog.Logger
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(registry *usecase.Registry, logger *slog.Logger) *FeedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHandler{
		registry: registry,
		logger:   logger,
	}
}

// HandlePublish handles POST /api/v1/feeds/:name/items requests.
func (h *FeedHandler) HandlePublish(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	var req PublishRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind publish request", "error", err, "feed", name)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.registry.Get(domain.FeedName(name)).Publish(ctx, req.Content, req.ID)
	if err != nil {
		h.logger.Error("publish failed", "error", err, "feed", name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to publish item")
	}

	status := http.StatusCreated
	if result.Edited {
		status = http.StatusOK
	}
	return c.JSON(status, PublishResponse{
		ID:      result.ID,
		Content: result.Content,
		Edited:  result.Edited,
		Evicted: result.Evicted,
	})
}

// HandleRetract handles DELETE /api/v1/feeds/:name/items/:id requests.
func (h *FeedHandler) HandleRetract(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")
	id := c.Param("id")

	err := h.registry.Get(domain.FeedName(name)).Retract(ctx, id)
	if errors.Is(err, domain.ErrItemNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		h.logger.Error("retract failed", "error", err, "feed", name, "item_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retract item")
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleGetIDs handles GET /api/v1/feeds/:name/ids requests.
func (h *FeedHandler) HandleGetIDs(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	ids, err := h.registry.Get(domain.FeedName(name)).GetIDs(ctx)
	if err != nil {
		h.logger.Error("failed to list ids", "error", err, "feed", name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list item IDs")
	}
	if ids == nil {
		ids = []string{}
	}

	return c.JSON(http.StatusOK, IDsResponse{IDs: ids})
}

// HandleGetItem handles GET /api/v1/feeds/:name/items/:id requests.
func (h *FeedHandler) HandleGetItem(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")
	id := c.Param("id")

	content, err := h.registry.Get(domain.FeedName(name)).GetItem(ctx, id)
	if errors.Is(err, domain.ErrItemNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		h.logger.Error("failed to get item", "error", err, "feed", name, "item_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get item")
	}

	return c.JSON(http.StatusOK, ItemResponse{ID: id, Content: content})
}

// HandleGetAll handles GET /api/v1/feeds/:name/items requests.
func (h *FeedHandler) HandleGetAll(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	items, err := h.registry.Get(domain.FeedName(name)).GetAll(ctx)
	if err != nil {
		h.logger.Error("failed to get items", "error", err, "feed", name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get items")
	}
	if items == nil {
		items = map[string]string{}
	}

	return c.JSON(http.StatusOK, items)
}
