package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/johanaerens/assetmanagement/db"
	"github.com/johanaerens/assetmanagement/logging"
	"github.com/johanaerens/assetmanagement/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "api.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ts := httptest.NewServer(NewServer(database, logging.Discard()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, contentType string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateAndGetAsset(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/assets", "application/json", map[string]any{
		"number": "even",
		"brand":  "amongst gladly royal",
		"status": "IN_USE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.Asset](t, resp)
	require.NotNil(t, created.ID)
	assert.Equal(t, "/api/assets/"+strconv.FormatInt(*created.ID, 10), resp.Header.Get("Location"))
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/assets/"+strconv.FormatInt(*created.ID, 10), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[models.Asset](t, resp)
	assert.Equal(t, "even", *got.Number)
	assert.Equal(t, "amongst gladly royal", *got.Brand)
	assert.Equal(t, models.StatusInUse, *got.Status)
	assert.Nil(t, got.Model)
}

func TestCreateWithIDIsRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", "application/json", map[string]any{"id": 5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	p := decodeBody[problem](t, resp)
	assert.Equal(t, "error.idexists", p.Message)
	assert.Equal(t, "employee", p.EntityName)
}

func TestGetMissingReturns404(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/asset-histories/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateIDChecks(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", "application/json", map[string]any{"firstName": "Ann"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	emp := decodeBody[models.Employee](t, resp)
	id := strconv.FormatInt(*emp.ID, 10)

	tests := []struct {
		name string
		url  string
		body map[string]any
		key  string
	}{
		{"null id", ts.URL + "/api/employees/" + id, map[string]any{"firstName": "X"}, "error.idnull"},
		{"mismatch", ts.URL + "/api/employees/" + id, map[string]any{"id": *emp.ID + 1}, "error.idinvalid"},
		{"missing", ts.URL + "/api/employees/4040", map[string]any{"id": 4040}, "error.idnotfound"},
	}
	for _, tt := range tests {
		for _, method := range []string{http.MethodPut, http.MethodPatch} {
			t.Run(tt.name+" "+method, func(t *testing.T) {
				resp := doJSON(t, method, tt.url, "application/json", tt.body)
				require.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Equal(t, tt.key, decodeBody[problem](t, resp).Message)
			})
		}
	}
}

func TestPutReplacesAllFields(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", "application/json",
		map[string]any{"firstName": "Ann", "lastName": "Peeters", "language": "DUTCH"})
	emp := decodeBody[models.Employee](t, resp)
	url := ts.URL + "/api/employees/" + strconv.FormatInt(*emp.ID, 10)

	resp = doJSON(t, http.MethodPut, url, "application/json", map[string]any{"id": *emp.ID, "firstName": "Anna"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[models.Employee](t, resp)
	assert.Equal(t, "Anna", *got.FirstName)
	assert.Nil(t, got.LastName)
	assert.Nil(t, got.Language)
}

func TestPatchEndDateKeepsOtherFields(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", "application/json", map[string]any{"firstName": "Ann"})
	emp := decodeBody[models.Employee](t, resp)
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/assets", "application/json", map[string]any{"number": "L1"})
	asset := decodeBody[models.Asset](t, resp)

	start := time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/asset-histories", "application/json", map[string]any{
		"startDate": start,
		"asset":     map[string]any{"id": *asset.ID},
		"employee":  map[string]any{"id": *emp.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	history := decodeBody[models.AssetHistory](t, resp)

	end := start.Add(72 * time.Hour)
	url := ts.URL + "/api/asset-histories/" + strconv.FormatInt(*history.ID, 10)
	resp = doJSON(t, http.MethodPatch, url, "application/merge-patch+json", map[string]any{
		"id":      *history.ID,
		"endDate": end,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	patched := decodeBody[models.AssetHistory](t, resp)

	assert.True(t, start.Equal(*patched.StartDate))
	assert.True(t, end.Equal(*patched.EndDate))
	require.NotNil(t, patched.Asset)
	require.NotNil(t, patched.Employee)
	assert.Equal(t, *asset.ID, *patched.Asset.ID)
	assert.Equal(t, "Ann", *patched.Employee.FirstName)
}

func TestPatchRejectsUnsupportedMediaType(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/assets/1", "text/plain", map[string]any{"id": 1})
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/assets", "application/json", map[string]any{"status": "LOST"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	p := decodeBody[problem](t, resp)
	assert.Equal(t, "error.validation", p.Message)
	require.Len(t, p.FieldErrors, 1)
	assert.Equal(t, "status", p.FieldErrors[0].Field)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/assets", "application/json",
		map[string]any{"employee": map[string]any{"id": 12345}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error.unknownreference", decodeBody[problem](t, resp).Message)
}

func TestEmployeeTextValidation(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", "application/json", map[string]any{"email": "front desk"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "front desk", *decodeBody[models.Employee](t, resp).Email)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/employees", "application/json", map[string]any{"lastName": strings.Repeat("x", 256)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	p := decodeBody[problem](t, resp)
	require.Len(t, p.FieldErrors, 1)
	assert.Equal(t, "lastName", p.FieldErrors[0].Field)
}

func TestListSortAndFilter(t *testing.T) {
	ts := setupTestServer(t)

	for _, name := range []string{"Bob", "Ann"} {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/employees", "application/json", map[string]any{"firstName": name})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/employees?sort=firstName,asc&cacheBuster=123", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	asc := decodeBody[[]models.Employee](t, resp)
	require.Len(t, asc, 2)
	assert.Equal(t, "Ann", *asc[0].FirstName)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/employees?sort=firstName,desc", "", nil)
	desc := decodeBody[[]models.Employee](t, resp)
	assert.Equal(t, "Bob", *desc[0].FirstName)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/employees?sort=salary,asc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/employees?sort=firstName,sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/employees?filter=assethistory-is-null", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]models.Employee](t, resp), 2)
}

func TestEmptyListIsArray(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/assets", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(body))
}

func TestDeleteReturnsNoContent(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/assets", "application/json", map[string]any{"number": "A"})
	asset := decodeBody[models.Asset](t, resp)
	url := ts.URL + "/api/assets/" + strconv.FormatInt(*asset.ID, 10)

	resp = doJSON(t, http.MethodDelete, url, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthMetricsAndGraph(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UP", decodeBody[map[string]string](t, resp)["status"])

	resp = doJSON(t, http.MethodGet, ts.URL+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "assetmanagement_http_requests_total")

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/graph/assignments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "digraph")
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := setupTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/assets", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "01HZX")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "01HZX", resp.Header.Get(requestIDHeader))
}

func TestParseSort(t *testing.T) {
	sorts, err := parseSort([]string{"firstName,desc", "id", ""})
	require.NoError(t, err)
	assert.Equal(t, []db.SortOrder{{Field: "firstName", Desc: true}, {Field: "id"}}, sorts)

	_, err = parseSort([]string{",asc"})
	assert.Error(t, err)
}
