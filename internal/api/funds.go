// internal/api/funds.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/senthilk/partybase/internal/datastore"
	"github.com/senthilk/partybase/internal/errors"
)

// initFundRoutes registers the fund tracking endpoints
func (c *Controller) initFundRoutes() {
	c.Group.GET("/funds", c.GetFunds)
	c.Group.GET("/funds/:id", c.GetFund)
	c.Group.POST("/funds", c.CreateFund)
	c.Group.PUT("/funds/:id", c.UpdateFund)
	c.Group.DELETE("/funds/:id", c.DeleteFund)
}

// FundRequest is the body of the fund create and update endpoints
type FundRequest struct {
	TaskName   string `json:"taskName"`
	TUnion     string `json:"tUnion"`
	TParvUnion string `json:"tParvUnion"`
	TPanchayat string `json:"tPanchayat"`
	TVillage   string `json:"tVillage"`
	Year       string `json:"year"`
	FundName   string `json:"fundName"`
	BoothNo    int    `json:"boothNo"`
	Status     string `json:"status"`
}

func fundIDParam(ctx echo.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	return uint(id), err
}

// GetFunds handles GET /api/v1/funds
func (c *Controller) GetFunds(ctx echo.Context) error {
	funds, err := c.DS.GetAllFunds(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get funds", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, funds)
}

// GetFund handles GET /api/v1/funds/:id
func (c *Controller) GetFund(ctx echo.Context) error {
	id, err := fundIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid fund ID", http.StatusBadRequest)
	}

	fund, err := c.DS.GetFund(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, datastore.ErrFundNotFound) {
			return c.HandleError(ctx, err, "Fund not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get fund", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, fund)
}

// CreateFund handles POST /api/v1/funds. New funds start as Active unless
// the request says otherwise.
func (c *Controller) CreateFund(ctx echo.Context) error {
	var req FundRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.TaskName == "" {
		return c.HandleError(ctx, nil, "Task name is required", http.StatusBadRequest)
	}
	if req.Status == "" {
		req.Status = "Active"
	}

	fund := &datastore.Fund{
		TaskName:   req.TaskName,
		TUnion:     req.TUnion,
		TParvUnion: req.TParvUnion,
		TPanchayat: req.TPanchayat,
		TVillage:   req.TVillage,
		Year:       req.Year,
		FundName:   req.FundName,
		BoothNo:    req.BoothNo,
		Status:     req.Status,
	}
	if err := c.DS.SaveFund(ctx.Request().Context(), fund); err != nil {
		return c.HandleError(ctx, err, "Failed to save fund", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, fund)
}

// UpdateFund handles PUT /api/v1/funds/:id
func (c *Controller) UpdateFund(ctx echo.Context) error {
	id, err := fundIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid fund ID", http.StatusBadRequest)
	}

	reqCtx := ctx.Request().Context()
	fund, err := c.DS.GetFund(reqCtx, id)
	if err != nil {
		if errors.Is(err, datastore.ErrFundNotFound) {
			return c.HandleError(ctx, err, "Fund not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get fund", http.StatusInternalServerError)
	}

	var req FundRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	if req.TaskName != "" {
		fund.TaskName = req.TaskName
	}
	if req.TUnion != "" {
		fund.TUnion = req.TUnion
	}
	if req.TParvUnion != "" {
		fund.TParvUnion = req.TParvUnion
	}
	if req.TPanchayat != "" {
		fund.TPanchayat = req.TPanchayat
	}
	if req.TVillage != "" {
		fund.TVillage = req.TVillage
	}
	if req.Year != "" {
		fund.Year = req.Year
	}
	if req.FundName != "" {
		fund.FundName = req.FundName
	}
	if req.BoothNo != 0 {
		fund.BoothNo = req.BoothNo
	}
	if req.Status != "" {
		fund.Status = req.Status
	}

	if err := c.DS.UpdateFund(reqCtx, fund); err != nil {
		return c.HandleError(ctx, err, "Failed to update fund", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, fund)
}

// DeleteFund handles DELETE /api/v1/funds/:id
func (c *Controller) DeleteFund(ctx echo.Context) error {
	id, err := fundIDParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid fund ID", http.StatusBadRequest)
	}

	if err := c.DS.DeleteFund(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, datastore.ErrFundNotFound) {
			return c.HandleError(ctx, err, "Fund not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to delete fund", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"success": true})
}
