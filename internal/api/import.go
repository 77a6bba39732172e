// internal/api/import.go
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/senthilk/partybase/internal/errors"
	"github.com/senthilk/partybase/internal/importer"
)

// initImportRoutes registers the bulk result import endpoint
func (c *Controller) initImportRoutes() {
	c.Group.POST("/results/import", c.ImportResults)
}

// ImportResultsResponse is the success body of the import endpoint
type ImportResultsResponse struct {
	Success bool             `json:"success"`
	Summary importer.Summary `json:"summary"`
}

// ImportResults handles POST /api/v1/results/import. The upload is parsed,
// validated, and reconciled against the reference data inside one
// transaction; either every usable row lands or none of the file does.
func (c *Controller) ImportResults(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.HandleError(ctx, err, "File is required", http.StatusBadRequest)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to open uploaded file", http.StatusBadRequest)
	}
	defer func() { _ = file.Close() }()

	format := importer.DetectFormat(fileHeader.Filename, fileHeader.Header.Get(echo.HeaderContentType))
	rows, err := importer.ReadRows(file, format)
	if err != nil {
		if c.metrics != nil {
			c.metrics.Importer.RecordBatch("rejected", 0)
		}
		if errors.Is(err, importer.ErrMalformedFile) {
			return c.HandleError(ctx, err, "File cannot be parsed as a spreadsheet", http.StatusBadRequest)
		}
		return c.HandleError(ctx, err, "Failed to read uploaded file", http.StatusInternalServerError)
	}

	start := time.Now()
	summary, err := importer.New(c.DS, c.apiLogger).Run(ctx.Request().Context(), rows)
	if err != nil {
		if c.metrics != nil {
			c.metrics.Importer.RecordBatch("rolled_back", time.Since(start).Seconds())
		}
		return c.HandleError(ctx, err, "Import failed, no rows were saved", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.Importer.RecordBatch("committed", time.Since(start).Seconds())
		c.metrics.Importer.RecordRows(summary.Imported, summary.Skipped)
	}

	return ctx.JSON(http.StatusOK, ImportResultsResponse{
		Success: true,
		Summary: summary,
	})
}
