// internal/api/members.go
package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/senthilk/partybase/internal/datastore"
	"github.com/senthilk/partybase/internal/errors"
)

// initMemberRoutes registers the member registry endpoints
func (c *Controller) initMemberRoutes() {
	c.Group.GET("/members", c.GetMembers)
	c.Group.GET("/members/export", c.ExportMembersCSV)
	c.Group.GET("/members/:id", c.GetMember)
	c.Group.GET("/members/:id/export", c.ExportMemberCSV)
	c.Group.GET("/members/:id/image", c.GetMemberImage)
	c.Group.POST("/members", c.CreateMember)
	c.Group.PUT("/members/:id", c.UpdateMember)
	c.Group.DELETE("/members/:id", c.DeleteMember)

	c.Group.GET("/positions", c.GetPositions)
}

// memberFromForm fills member fields from the multipart form. Only fields
// present in the form are touched, so a partial update keeps existing values.
func memberFromForm(ctx echo.Context, member *datastore.Member) {
	fields := map[string]*string{
		"mobile":                  &member.Mobile,
		"name":                    &member.Name,
		"date_of_birth":           &member.DateOfBirth,
		"parents_name":            &member.ParentsName,
		"address":                 &member.Address,
		"education_qualification": &member.EducationQualification,
		"caste":                   &member.Caste,
		"joining_date":            &member.JoiningDate,
		"joining_details":         &member.JoiningDetails,
		"party_member_number":     &member.PartyMemberNumber,
		"voter_id":                &member.VoterID,
		"aadhaar_number":          &member.AadhaarNumber,
		"t_name":                  &member.TName,
		"d_name":                  &member.DName,
		"j_name":                  &member.JName,
	}
	for name, dest := range fields {
		if value := ctx.FormValue(name); value != "" {
			*dest = value
		}
	}
}

// readImageUpload reads the optional "image" part of the form. A missing
// part is not an error: the caller keeps whatever image was stored before.
func readImageUpload(ctx echo.Context) ([]byte, string, error) {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return nil, "", nil
	}

	var file multipart.File
	file, err = fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Header.Get(echo.HeaderContentType), nil
}

// GetMembers handles GET /api/v1/members. Image blobs are omitted from the
// listing; clients fetch them per member.
func (c *Controller) GetMembers(ctx echo.Context) error {
	members, err := c.DS.GetAllMembers(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get members", http.StatusInternalServerError)
	}

	type memberListItem struct {
		datastore.Member
		ImageData []byte `json:"-"`
		HasImage  bool   `json:"hasImage"`
	}

	items := make([]memberListItem, 0, len(members))
	for i := range members {
		items = append(items, memberListItem{
			Member:   members[i],
			HasImage: len(members[i].ImageData) > 0,
		})
	}
	return ctx.JSON(http.StatusOK, items)
}

// GetMember handles GET /api/v1/members/:id
func (c *Controller) GetMember(ctx echo.Context) error {
	member, err := c.DS.GetMember(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, datastore.ErrMemberNotFound) {
			return c.HandleError(ctx, err, "Member not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get member", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, member)
}

// GetMemberImage handles GET /api/v1/members/:id/image, serving the stored
// blob with its original content type.
func (c *Controller) GetMemberImage(ctx echo.Context) error {
	member, err := c.DS.GetMember(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, datastore.ErrMemberNotFound) {
			return c.HandleError(ctx, err, "Member not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get member", http.StatusInternalServerError)
	}
	if len(member.ImageData) == 0 {
		return c.HandleError(ctx, nil, "Member has no image", http.StatusNotFound)
	}

	imageType := member.ImageType
	if imageType == "" {
		imageType = "application/octet-stream"
	}
	return ctx.Blob(http.StatusOK, imageType, member.ImageData)
}

// CreateMember handles POST /api/v1/members (multipart form). A mobile
// number can only be registered once.
func (c *Controller) CreateMember(ctx echo.Context) error {
	member := &datastore.Member{ID: uuid.New().String()}
	memberFromForm(ctx, member)

	if member.Mobile == "" || member.Name == "" {
		return c.HandleError(ctx, nil, "Mobile and name are required", http.StatusBadRequest)
	}

	reqCtx := ctx.Request().Context()
	if _, err := c.DS.GetMemberByMobile(reqCtx, member.Mobile); err == nil {
		return c.HandleError(ctx, nil, "Member with this mobile number already exists", http.StatusConflict)
	} else if !errors.Is(err, datastore.ErrMemberNotFound) {
		return c.HandleError(ctx, err, "Failed to check existing member", http.StatusInternalServerError)
	}

	imageData, imageType, err := readImageUpload(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to read image upload", http.StatusBadRequest)
	}
	member.ImageData = imageData
	member.ImageType = imageType

	if err := c.DS.SaveMember(reqCtx, member); err != nil {
		return c.HandleError(ctx, err, "Failed to save member", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, member)
}

// UpdateMember handles PUT /api/v1/members/:id. The stored image is kept
// when the form carries no new one.
func (c *Controller) UpdateMember(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	member, err := c.DS.GetMember(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, datastore.ErrMemberNotFound) {
			return c.HandleError(ctx, err, "Member not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get member", http.StatusInternalServerError)
	}

	memberFromForm(ctx, member)

	imageData, imageType, err := readImageUpload(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to read image upload", http.StatusBadRequest)
	}
	if len(imageData) > 0 {
		member.ImageData = imageData
		member.ImageType = imageType
	}

	if err := c.DS.UpdateMember(reqCtx, member); err != nil {
		return c.HandleError(ctx, err, "Failed to update member", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, member)
}

// DeleteMember handles DELETE /api/v1/members/:id
func (c *Controller) DeleteMember(ctx echo.Context) error {
	err := c.DS.DeleteMember(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, datastore.ErrMemberNotFound) {
			return c.HandleError(ctx, err, "Member not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to delete member", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"success": true})
}

// ExportMembersCSV handles GET /api/v1/members/export, streaming the member
// registry as a CSV download. Image blobs are not exported.
func (c *Controller) ExportMembersCSV(ctx echo.Context) error {
	members, err := c.DS.GetAllMembers(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get members", http.StatusInternalServerError)
	}
	if len(members) == 0 {
		return c.HandleError(ctx, nil, "No members to export", http.StatusNotFound)
	}

	return c.writeMembersCSV(ctx, "members.csv", members)
}

// ExportMemberCSV handles GET /api/v1/members/:id/export, a one-row CSV of a
// single member.
func (c *Controller) ExportMemberCSV(ctx echo.Context) error {
	member, err := c.DS.GetMember(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, datastore.ErrMemberNotFound) {
			return c.HandleError(ctx, err, "Member not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get member", http.StatusInternalServerError)
	}

	filename := fmt.Sprintf("member-%s.csv", member.ID)
	return c.writeMembersCSV(ctx, filename, []datastore.Member{*member})
}

func (c *Controller) writeMembersCSV(ctx echo.Context, filename string, members []datastore.Member) error {
	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	res.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(res)
	header := []string{
		"id", "mobile", "name", "date_of_birth", "parents_name", "address",
		"education_qualification", "caste", "joining_date", "joining_details",
		"party_member_number", "voter_id", "aadhaar_number",
		"t_name", "d_name", "j_name",
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for i := range members {
		m := &members[i]
		record := []string{
			m.ID, m.Mobile, m.Name, m.DateOfBirth, m.ParentsName, m.Address,
			m.EducationQualification, m.Caste, m.JoiningDate, m.JoiningDetails,
			m.PartyMemberNumber, m.VoterID, m.AadhaarNumber,
			m.TName, m.DName, m.JName,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// GetPositions handles GET /api/v1/positions, serving the distinct team
// positions with a short-lived cache in front of the query.
func (c *Controller) GetPositions(ctx echo.Context) error {
	const cacheKey = "positions"

	if cached, found := c.positionsCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached)
	}

	positions, err := c.DS.GetPositions(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get positions", http.StatusInternalServerError)
	}

	c.positionsCache.SetDefault(cacheKey, positions)
	return ctx.JSON(http.StatusOK, positions)
}
