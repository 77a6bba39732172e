// internal/api/elections.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/senthilk/partybase/internal/datastore"
	"github.com/senthilk/partybase/internal/errors"
)

// initElectionRoutes registers the election reference data endpoints
func (c *Controller) initElectionRoutes() {
	c.Group.GET("/election-years", c.GetElectionYears)
	c.Group.POST("/election-years", c.CreateElectionYear)

	c.Group.GET("/constituencies", c.GetConstituencies)
	c.Group.POST("/constituencies", c.CreateConstituency)
	c.Group.GET("/constituencies/:id/results", c.GetConstituencyResults)
}

// CreateElectionYearRequest is the body of the year creation endpoint
type CreateElectionYearRequest struct {
	Year int `json:"year"`
}

// CreateElectionYear handles POST /api/v1/election-years. Years are
// reference data the import pipeline resolves against; they are only ever
// created here.
func (c *Controller) CreateElectionYear(ctx echo.Context) error {
	var req CreateElectionYearRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Year < 1900 || req.Year > 2100 {
		return c.HandleError(ctx, nil, "Year out of range", http.StatusBadRequest)
	}

	year := &datastore.ElectionYear{Year: req.Year}
	if err := c.DS.CreateElectionYear(ctx.Request().Context(), year); err != nil {
		if errors.HasCategory(err, errors.CategoryConflict) {
			return c.HandleError(ctx, err, "Election year already exists", http.StatusConflict)
		}
		return c.HandleError(ctx, err, "Failed to create election year", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusCreated, year)
}

// GetElectionYears handles GET /api/v1/election-years
func (c *Controller) GetElectionYears(ctx echo.Context) error {
	years, err := c.DS.GetElectionYears(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get election years", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, years)
}

// CreateConstituencyRequest is the body of the constituency creation endpoint
type CreateConstituencyRequest struct {
	Number int    `json:"number"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// CreateConstituency handles POST /api/v1/constituencies
func (c *Controller) CreateConstituency(ctx echo.Context) error {
	var req CreateConstituencyRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Name == "" {
		return c.HandleError(ctx, nil, "Name is required", http.StatusBadRequest)
	}

	constituency := &datastore.Constituency{
		Number: req.Number,
		Code:   req.Code,
		Name:   req.Name,
	}
	if err := c.DS.CreateConstituency(ctx.Request().Context(), constituency); err != nil {
		return c.HandleError(ctx, err, "Failed to create constituency", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusCreated, constituency)
}

// GetConstituencies handles GET /api/v1/constituencies
func (c *Controller) GetConstituencies(ctx echo.Context) error {
	constituencies, err := c.DS.GetConstituencies(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get constituencies", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, constituencies)
}

// GetConstituencyResults handles GET /api/v1/constituencies/:id/results with
// an optional ?year= filter.
func (c *Controller) GetConstituencyResults(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid constituency ID", http.StatusBadRequest)
	}

	year := 0
	if yearParam := ctx.QueryParam("year"); yearParam != "" {
		year, err = strconv.Atoi(yearParam)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid year filter", http.StatusBadRequest)
		}
	}

	reqCtx := ctx.Request().Context()
	if _, err := c.DS.GetConstituency(reqCtx, uint(id)); err != nil {
		if errors.Is(err, datastore.ErrConstituencyNotFound) {
			return c.HandleError(ctx, err, "Constituency not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get constituency", http.StatusInternalServerError)
	}

	results, err := c.DS.GetConstituencyResults(reqCtx, uint(id), year)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get constituency results", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, results)
}
