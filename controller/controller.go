// Package controller exposes the detection engine over HTTP and keeps
// a history of detection requests in SQLite.
package controller

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/tsingjyujing/glossa/detector"
	"github.com/tsingjyujing/glossa/text"
)

//go:embed schema.sql
var ddl string

func GetDDL() string {
	return ddl
}

const (
	RowNotFoundMessage = "sql: no rows in result set"

	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

var logger = logrus.New()

type Controller struct {
	db         *sql.DB
	hub        *detector.Hub
	normalizer text.Normalizer
}

// NewController wires the registry hub, the optional CJK simplifier
// and the history database together. When simplifyCJK is set,
// Traditional Chinese input is folded onto Simplified forms before
// detection so the bundled zh-cn profile covers both.
func NewController(db *sql.DB, hub *detector.Hub, simplifyCJK bool) (*Controller, error) {
	normalizer, err := text.NewCJKNormalizer(simplifyCJK)
	if err != nil {
		return nil, err
	}
	return &Controller{
		db:         db,
		hub:        hub,
		normalizer: normalizer,
	}, nil
}

// Close closes all resources held by the controller
func (c *Controller) Close() error {
	if err := c.db.Close(); err != nil {
		logger.WithError(err).Error("Failed to close database")
		return err
	}
	logger.Info("Controller resources closed successfully")
	return nil
}

// handleSQLError return http response by error return from sql
func handleSQLError(echoCtx echo.Context, err error) error {
	if err.Error() == RowNotFoundMessage {
		return echoCtx.JSON(http.StatusNotFound, map[string]string{"status": "not found"})
	}
	return echoCtx.JSON(http.StatusInternalServerError, map[string]string{"status": err.Error()})
}

func handleGenericError(echoCtx echo.Context, err error, status int) error {
	logger.WithError(err).WithField("status", status).Error("Error handling request")
	return echoCtx.JSON(status, map[string]string{"status": err.Error()})
}

func handleInternalError(echoCtx echo.Context, err error) error {
	return handleGenericError(echoCtx, err, http.StatusInternalServerError)
}

// registryFor picks the registry for a request: ?registry=<name> for a
// named one, ?short=1 for the bundled short-text set, the bundled
// standard set otherwise.
func (c *Controller) registryFor(echoCtx echo.Context) (*detector.Registry, error) {
	if name := echoCtx.QueryParam("registry"); name != "" {
		return c.hub.GetOrCreate(name)
	}
	short := echoCtx.QueryParam("short")
	if short == "true" || short == "1" {
		return c.hub.DefaultShortText()
	}
	return c.hub.Default()
}

type DetectParams struct {
	Text         string             `json:"text"`
	Alpha        *float64           `json:"alpha,omitempty"`
	Seed         *int64             `json:"seed,omitempty"`
	Priority     map[string]float64 `json:"priority,omitempty"`
	PriorityMode string             `json:"priority_mode,omitempty"` // "additive" (default) or "replace"
}

func parsePriorityMode(mode string) (detector.PriorityMode, error) {
	switch mode {
	case "", "additive":
		return detector.PriorityAdditive, nil
	case "replace":
		return detector.PriorityReplace, nil
	default:
		return 0, fmt.Errorf("unknown priority mode: %q", mode)
	}
}

// DetectLanguage runs one detection, stores it in the history and
// returns the ranked distribution.
func (c *Controller) DetectLanguage(echoCtx echo.Context) error {
	ctx := echoCtx.Request().Context()

	param := DetectParams{}
	if err := echoCtx.Bind(&param); err != nil {
		return handleGenericError(echoCtx, err, http.StatusBadRequest)
	}
	if param.Text == "" {
		return handleGenericError(echoCtx, errors.New("text is required"), http.StatusBadRequest)
	}

	registry, err := c.registryFor(echoCtx)
	if err != nil {
		if errors.Is(err, detector.ErrReservedName) {
			return handleGenericError(echoCtx, err, http.StatusBadRequest)
		}
		return handleGenericError(echoCtx, err, http.StatusServiceUnavailable)
	}
	session, err := registry.Create()
	if err != nil {
		// A named registry that was never loaded has no languages.
		return handleGenericError(echoCtx, err, http.StatusConflict)
	}
	if param.Alpha != nil {
		session.SetAlpha(*param.Alpha)
	}
	if param.Seed != nil {
		session.SetSeed(*param.Seed)
	}
	if len(param.Priority) > 0 {
		mode, err := parsePriorityMode(param.PriorityMode)
		if err != nil {
			return handleGenericError(echoCtx, err, http.StatusBadRequest)
		}
		if err := session.SetPriorityMap(param.Priority, mode); err != nil {
			return handleGenericError(echoCtx, err, http.StatusBadRequest)
		}
	}

	normalized, err := c.normalizer.Normalize(param.Text)
	if err != nil {
		return handleInternalError(echoCtx, err)
	}
	session.Append(normalized)

	record := newDetectionRecord(param.Text, session.Detect(), session.Probabilities())
	if err := c.insertDetection(ctx, record); err != nil {
		return handleSQLError(echoCtx, err)
	}
	logger.WithField("id", record.ID).WithField("lang", record.Language).Debug("Detection stored")
	return echoCtx.JSON(http.StatusOK, record)
}

// ListLanguages returns the selected registry's languages in load
// order.
func (c *Controller) ListLanguages(echoCtx echo.Context) error {
	registry, err := c.registryFor(echoCtx)
	if err != nil {
		if errors.Is(err, detector.ErrReservedName) {
			return handleGenericError(echoCtx, err, http.StatusBadRequest)
		}
		return handleGenericError(echoCtx, err, http.StatusServiceUnavailable)
	}
	return echoCtx.JSON(http.StatusOK, registry.Languages())
}

// ListDetections returns the most recent detection records, newest
// first; ?n= bounds the count.
func (c *Controller) ListDetections(echoCtx echo.Context) error {
	ctx := echoCtx.Request().Context()
	limit := defaultHistoryLimit
	if n := echoCtx.QueryParam("n"); n != "" {
		parsed, err := strconv.Atoi(n)
		if err != nil || parsed < 1 {
			return handleGenericError(echoCtx, fmt.Errorf("invalid n: %q", n), http.StatusBadRequest)
		}
		limit = min(parsed, maxHistoryLimit)
	}
	records, err := c.listDetections(ctx, limit)
	if err != nil {
		return handleSQLError(echoCtx, err)
	}
	return echoCtx.JSON(http.StatusOK, records)
}

// GetDetection returns one stored detection by ID.
func (c *Controller) GetDetection(echoCtx echo.Context) error {
	ctx := echoCtx.Request().Context()
	record, err := c.getDetection(ctx, echoCtx.Param("detection_id"))
	if err != nil {
		return handleSQLError(echoCtx, err)
	}
	return echoCtx.JSON(http.StatusOK, record)
}
