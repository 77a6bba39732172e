package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/senthilk/partybase/internal/conf"
	"github.com/senthilk/partybase/internal/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() *conf.Settings {
	settings := &conf.Settings{}
	settings.Version = "test"
	settings.WebServer.Port = "8080"
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = ":memory:"
	settings.Import.MaxUploadSize = 5 * 1024 * 1024
	return settings
}

// newTestController brings up the whole API surface against an in-memory
// SQLite store.
func newTestController(t *testing.T, settings *conf.Settings) (*echo.Echo, *Controller) {
	t.Helper()

	if settings == nil {
		settings = testSettings()
	}

	ds := datastore.New(settings)
	require.NotNil(t, ds)
	require.NoError(t, ds.Open())
	t.Cleanup(func() { _ = ds.Close() })

	e := echo.New()
	controller, err := New(e, ds, settings, nil, nil)
	require.NoError(t, err)
	t.Cleanup(controller.Shutdown)

	return e, controller
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestController(t, nil)

	rec := doJSON(e, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database_status"])
}

func TestElectionYearEndpoints(t *testing.T) {
	e, _ := newTestController(t, nil)

	rec := doJSON(e, http.MethodPost, "/api/v1/election-years", `{"year": 2021}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/election-years", `{"year": 2021}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/election-years", `{"year": 21}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/election-years", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var years []datastore.ElectionYear
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &years))
	assert.Len(t, years, 1)
}

func TestConstituencyEndpoints(t *testing.T) {
	e, _ := newTestController(t, nil)

	rec := doJSON(e, http.MethodPost, "/api/v1/constituencies",
		`{"number": 164, "code": "TVR", "name": "Tiruvarur"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created datastore.Constituency
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	rec = doJSON(e, http.MethodPost, "/api/v1/constituencies", `{"number": 1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/v1/constituencies/%d/results", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/constituencies/9999/results", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func buildUpload(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename),
	}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestImportEndpoint(t *testing.T) {
	e, _ := newTestController(t, nil)

	// Reference data first
	require.Equal(t, http.StatusCreated,
		doJSON(e, http.MethodPost, "/api/v1/election-years", `{"year": 2021}`).Code)
	rec := doJSON(e, http.MethodPost, "/api/v1/constituencies",
		`{"number": 164, "code": "TVR", "name": "Tiruvarur"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var constituency datastore.Constituency
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &constituency))

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/results/import", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "File is required")
	})

	t.Run("malformed file", func(t *testing.T) {
		body, contentType := buildUpload(t, "file", "results.xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "not a workbook")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/results/import", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("csv upload commits", func(t *testing.T) {
		content := "constituency_id,booth_no,village_name,year,polling_percentage,party_percentage\n" +
			fmt.Sprintf("%d,5,Mannargudi,2021,72.5,40.1\n", constituency.ID) +
			fmt.Sprintf("%d,6,Kudavasal,1899,68.0,35.5\n", constituency.ID)

		body, contentType := buildUpload(t, "file", "results.csv", "text/csv", content)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/results/import", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ImportResultsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.Summary.Imported)
		assert.Equal(t, 1, resp.Summary.Skipped)

		// Committed rows show up in the results view
		viewRec := doJSON(e, http.MethodGet,
			fmt.Sprintf("/api/v1/constituencies/%d/results?year=2021", constituency.ID), "")
		require.Equal(t, http.StatusOK, viewRec.Code)
		var results []datastore.ConstituencyResult
		require.NoError(t, json.Unmarshal(viewRec.Body.Bytes(), &results))
		require.Len(t, results, 1)
		assert.Equal(t, 5, results[0].BoothNo)
		assert.InDelta(t, 72.5, results[0].PollingPercentage, 0.001)
	})
}

func TestAuthMiddleware(t *testing.T) {
	settings := testSettings()
	settings.WebServer.AuthToken = "secret-token"
	e, _ := newTestController(t, settings)

	t.Run("mutation rejected without token", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/election-years", `{"year": 2021}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("mutation rejected with wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/election-years", strings.NewReader(`{"year": 2021}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer wrong")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("mutation accepted with token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/election-years", strings.NewReader(`{"year": 2021}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer secret-token")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("reads need the token too", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/election-years", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("health stays public", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func memberForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestMemberEndpoints(t *testing.T) {
	e, _ := newTestController(t, nil)

	post := func(t *testing.T, fields map[string]string) *httptest.ResponseRecorder {
		t.Helper()
		body, contentType := memberForm(t, fields)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/members", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := post(t, map[string]string{"mobile": "9876543210", "name": "Kumar"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created datastore.Member
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	t.Run("duplicate mobile rejected", func(t *testing.T) {
		rec := post(t, map[string]string{"mobile": "9876543210", "name": "Someone Else"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		rec := post(t, map[string]string{"mobile": "1234567890"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get member", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/members/"+created.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(e, http.MethodGet, "/api/v1/members/no-such-id", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update keeps unset fields", func(t *testing.T) {
		body, contentType := memberForm(t, map[string]string{"address": "Main Street"})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/members/"+created.ID, body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated datastore.Member
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "Kumar", updated.Name)
		assert.Equal(t, "Main Street", updated.Address)
	})

	t.Run("csv export", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/members/export", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
		assert.Contains(t, rec.Body.String(), "9876543210")
	})

	t.Run("single member export", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/members/"+created.ID+"/export", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
		assert.Contains(t, rec.Body.String(), created.ID)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(e, http.MethodDelete, "/api/v1/members/"+created.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(e, http.MethodDelete, "/api/v1/members/"+created.ID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("export with no members is not found", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/members/export", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventEndpoints(t *testing.T) {
	e, _ := newTestController(t, nil)

	body, contentType := memberForm(t, map[string]string{
		"title": "Booth committee meeting", "type": "party", "date": "2026-09-15",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created datastore.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	t.Run("invalid type rejected", func(t *testing.T) {
		body, contentType := memberForm(t, map[string]string{"title": "X", "type": "festival"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list and delete", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/events", "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/v1/events/%d", created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/v1/events/%d", created.ID), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFundEndpoints(t *testing.T) {
	e, _ := newTestController(t, nil)

	rec := doJSON(e, http.MethodPost, "/api/v1/funds",
		`{"taskName": "Road repair", "fundName": "MLA fund", "boothNo": 5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created datastore.Fund
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Active", created.Status)

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/v1/funds/%d", created.ID),
		`{"status": "Completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated datastore.Fund
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Completed", updated.Status)
	assert.Equal(t, "Road repair", updated.TaskName)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/v1/funds/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/v1/funds/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPositionsEndpointCaches(t *testing.T) {
	e, controller := newTestController(t, nil)

	rec := doJSON(e, http.MethodGet, "/api/v1/positions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, found := controller.positionsCache.Get("positions")
	assert.True(t, found)
}
