package controller

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsingjyujing/glossa/detector"
	_ "modernc.org/sqlite"
)

// setupTestController creates a controller with an in-memory database
func setupTestController(t *testing.T) (*Controller, *sql.DB) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "Failed to open in-memory database")

	_, err = db.Exec(GetDDL())
	require.NoError(t, err, "Failed to create tables")

	controller, err := NewController(db, detector.NewHub(), false)
	require.NoError(t, err, "Failed to create controller")

	return controller, db
}

func postDetect(t *testing.T, e *echo.Echo, controller *Controller, target string, params DetectParams) (*httptest.ResponseRecorder, *DetectionRecord) {
	t.Helper()
	reqBody, err := json.Marshal(params)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, controller.DetectLanguage(c))
	record := &DetectionRecord{}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), record))
	}
	return rec, record
}

func TestDetectAndHistory(t *testing.T) {
	controller, db := setupTestController(t)
	defer db.Close()

	e := echo.New()
	seed := int64(42)

	var storedID string

	t.Run("DetectEnglish", func(t *testing.T) {
		rec, record := postDetect(t, e, controller, "/api/v1/detect", DetectParams{
			Text: "this is a pen and that is a book and you are reading all of this in the english language",
			Seed: &seed,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "en", record.Language)
		assert.NotEmpty(t, record.ID)
		require.NotEmpty(t, record.Probabilities)
		assert.Equal(t, "en", record.Probabilities[0].Lang)
		storedID = record.ID
	})

	t.Run("DetectRussianShortText", func(t *testing.T) {
		rec, record := postDetect(t, e, controller, "/api/v1/detect?short=1", DetectParams{
			Text: "это простой текст на русском",
			Seed: &seed,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ru", record.Language)
	})

	t.Run("RejectsEmptyText", func(t *testing.T) {
		rec, _ := postDetect(t, e, controller, "/api/v1/detect", DetectParams{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("RejectsReservedRegistry", func(t *testing.T) {
		rec, _ := postDetect(t, e, controller, "/api/v1/detect?registry=DEFAULT", DetectParams{
			Text: "some text",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("EmptyNamedRegistryConflicts", func(t *testing.T) {
		rec, _ := postDetect(t, e, controller, "/api/v1/detect?registry=empty", DetectParams{
			Text: "some text",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("RejectsUnknownPriorityMode", func(t *testing.T) {
		rec, _ := postDetect(t, e, controller, "/api/v1/detect", DetectParams{
			Text:         "some text",
			Priority:     map[string]float64{"en": 1},
			PriorityMode: "multiplicative",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("PriorityReplaceRestrictsResult", func(t *testing.T) {
		rec, record := postDetect(t, e, controller, "/api/v1/detect", DetectParams{
			Text:         "this is a pen and that is a book in english",
			Seed:         &seed,
			Priority:     map[string]float64{"de": 1, "nl": 1},
			PriorityMode: "replace",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		langs := make([]string, 0, len(record.Probabilities))
		for _, lang := range record.Probabilities {
			langs = append(langs, lang.Lang)
		}
		assert.ElementsMatch(t, []string{"de", "nl"}, langs)
	})

	t.Run("ListHistory", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history?n=10", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, controller.ListDetections(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var records []*DetectionRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		ids := make([]string, 0, len(records))
		for _, record := range records {
			ids = append(ids, record.ID)
		}
		assert.Contains(t, ids, storedID)
	})

	t.Run("GetDetectionByID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history/"+storedID, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("detection_id")
		c.SetParamValues(storedID)
		require.NoError(t, controller.GetDetection(c))
		require.Equal(t, http.StatusOK, rec.Code)

		record := &DetectionRecord{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), record))
		assert.Equal(t, storedID, record.ID)
		assert.Equal(t, "en", record.Language)
	})

	t.Run("GetUnknownDetection", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history/missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("detection_id")
		c.SetParamValues("missing")
		require.NoError(t, controller.GetDetection(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("InvalidHistoryLimit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history?n=zero", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, controller.ListDetections(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListLanguages(t *testing.T) {
	controller, db := setupTestController(t)
	defer db.Close()

	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, controller.ListLanguages(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var languages []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &languages))
	assert.Len(t, languages, 10)
	assert.Contains(t, languages, "en")
	assert.Contains(t, languages, "zh-cn")
}
