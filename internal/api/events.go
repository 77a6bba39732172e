// internal/api/events.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/senthilk/partybase/internal/datastore"
	"github.com/senthilk/partybase/internal/errors"
)

// initEventRoutes registers the event endpoints
func (c *Controller) initEventRoutes() {
	c.Group.GET("/events", c.GetEvents)
	c.Group.GET("/events/:id", c.GetEvent)
	c.Group.GET("/events/:id/image", c.GetEventImage)
	c.Group.POST("/events", c.CreateEvent)
	c.Group.PUT("/events/:id", c.UpdateEvent)
	c.Group.DELETE("/events/:id", c.DeleteEvent)
}

func eventIDParam(ctx echo.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	return uint(id), err
}

// eventFromForm fills event fields from the multipart form, leaving absent
// fields untouched.
func eventFromForm(ctx echo.Context, event *datastore.Event) {
	fields := map[string]*string{
		"title":       &event.Title,
		"type":        &event.Type,
		"date":        &event.Date,
		"time":        &event.Time,
		"location":    &event.Location,
		"description": &event.Description,
	}
	for name, dest := range fields {
		if value := ctx.FormValue(name); value != "" {
			*dest = value
		}
	}
}

// GetEvents handles GET /api/v1/events
func (c *Controller) GetEvents(ctx echo.Context) error {
	events, err := c.DS.GetAllEvents(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get events", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, events)
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx echo.Context) error {
	id, err := eventIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid event ID", http.StatusBadRequest)
	}

	event, err := c.DS.GetEvent(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, datastore.ErrEventNotFound) {
			return c.HandleError(ctx, err, "Event not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get event", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, event)
}

// GetEventImage handles GET /api/v1/events/:id/image
func (c *Controller) GetEventImage(ctx echo.Context) error {
	id, err := eventIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid event ID", http.StatusBadRequest)
	}

	event, err := c.DS.GetEvent(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, datastore.ErrEventNotFound) {
			return c.HandleError(ctx, err, "Event not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get event", http.StatusInternalServerError)
	}
	if len(event.ImageData) == 0 {
		return c.HandleError(ctx, nil, "Event has no image", http.StatusNotFound)
	}

	imageType := event.ImageType
	if imageType == "" {
		imageType = "application/octet-stream"
	}
	return ctx.Blob(http.StatusOK, imageType, event.ImageData)
}

// CreateEvent handles POST /api/v1/events (multipart form)
func (c *Controller) CreateEvent(ctx echo.Context) error {
	event := &datastore.Event{}
	eventFromForm(ctx, event)

	if event.Title == "" {
		return c.HandleError(ctx, nil, "Title is required", http.StatusBadRequest)
	}
	if event.Type != "party" && event.Type != "government" {
		return c.HandleError(ctx, nil, "Type must be party or government", http.StatusBadRequest)
	}

	imageData, imageType, err := readImageUpload(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to read image upload", http.StatusBadRequest)
	}
	event.ImageData = imageData
	event.ImageType = imageType

	if err := c.DS.SaveEvent(ctx.Request().Context(), event); err != nil {
		return c.HandleError(ctx, err, "Failed to save event", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, event)
}

// UpdateEvent handles PUT /api/v1/events/:id, keeping the stored image when
// no new one is uploaded.
func (c *Controller) UpdateEvent(ctx echo.Context) error {
	id, err := eventIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid event ID", http.StatusBadRequest)
	}

	reqCtx := ctx.Request().Context()
	event, err := c.DS.GetEvent(reqCtx, id)
	if err != nil {
		if errors.Is(err, datastore.ErrEventNotFound) {
			return c.HandleError(ctx, err, "Event not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get event", http.StatusInternalServerError)
	}

	eventFromForm(ctx, event)

	imageData, imageType, err := readImageUpload(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to read image upload", http.StatusBadRequest)
	}
	if len(imageData) > 0 {
		event.ImageData = imageData
		event.ImageType = imageType
	}

	if err := c.DS.UpdateEvent(reqCtx, event); err != nil {
		return c.HandleError(ctx, err, "Failed to update event", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/v1/events/:id
func (c *Controller) DeleteEvent(ctx echo.Context) error {
	id, err := eventIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid event ID", http.StatusBadRequest)
	}

	if err := c.DS.DeleteEvent(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, datastore.ErrEventNotFound) {
			return c.HandleError(ctx, err, "Event not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to delete event", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"success": true})
}
