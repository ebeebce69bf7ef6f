package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamelog/internal/logquery"
	"gamelog/internal/service"
)

type LogHandler struct {
	Logs    *service.LogService
	Options logquery.Options
	Logger  *zap.Logger

	// Auth guards every route below. POST skips it when PublicIngest is set
	// so game clients can ship logs without holding the dashboard key.
	Auth         gin.HandlerFunc
	PublicIngest bool
	MaxBodyBytes int64
	Now          func() time.Time
}

func (h *LogHandler) Register(r *gin.Engine) {
	protect := h.Auth
	if protect == nil {
		protect = func(c *gin.Context) { c.Next() }
	}
	ingest := []gin.HandlerFunc{h.create}
	if !h.PublicIngest {
		ingest = append([]gin.HandlerFunc{protect}, ingest...)
	}

	group := r.Group("/logs")
	group.GET("", protect, h.list)
	group.POST("", ingest...)
	group.DELETE("", protect, h.deleteMany)
	group.GET("/players", protect, h.players)
	group.GET("/:id", protect, h.get)
	group.DELETE("/:id", protect, h.deleteOne)
}

func (h *LogHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// @Summary List logs
// @Description Filtered, sorted and paginated log records plus the distinct player list.
// @Tags logs
// @Security BearerAuth
// @Param player query string false "exact player name; 'all' disables the filter"
// @Param level query string false "INFO, WARNING, ERROR or DEBUG"
// @Param source query string false "exact source"
// @Param startDate query string false "inclusive lower bound (RFC 3339, YYYY-MM-DD or unix seconds)"
// @Param endDate query string false "inclusive upper bound; a plain date covers the whole day"
// @Param search query string false "case-insensitive substring of message, source or player"
// @Param timeframe query string false "today, yesterday, week, month or all"
// @Param page query int false "page number" default(1)
// @Param limit query int false "page size, max 500" default(20)
// @Param sort query string false "timestamp, level, player, source, message, createdAt or id" default(timestamp)
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} listResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /logs [get]
func (h *LogHandler) list(c *gin.Context) {
	params := logquery.ParseParams(c.Request.URL.Query(), h.Options)
	res, err := h.Logs.Query(c.Request.Context(), params.Filter(h.now()), params.PageRequest())
	if err != nil {
		Fail(c, h.Logger, err)
		return
	}
	Ok(c, http.StatusOK, listResponse{
		Data: res.Records,
		Pagination: pagination{
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		},
		Filters: listFilters{Players: res.Players},
	})
}

// @Summary Ingest a log record
// @Tags logs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.IngestInput true "log record"
// @Success 201 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 413 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /logs [post]
func (h *LogHandler) create(c *gin.Context) {
	h.limitBody(c)
	var in service.IngestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	record, err := h.Logs.Ingest(c.Request.Context(), in)
	if err != nil {
		Fail(c, h.Logger, err)
		return
	}
	Ok(c, http.StatusCreated, recordResponse{Data: *record})
}

// @Summary Delete logs
// @Description Deletes records matching the filter. Filter fields may come from the query string, a JSON body, or both (query wins). Without all=true an empty filter deletes nothing.
// @Tags logs
// @Security BearerAuth
// @Param player query string false "exact player name"
// @Param level query string false "INFO, WARNING, ERROR or DEBUG"
// @Param source query string false "exact source"
// @Param startDate query string false "inclusive lower bound"
// @Param endDate query string false "inclusive upper bound"
// @Param before query string false "exclusive upper bound"
// @Param search query string false "case-insensitive substring"
// @Param timeframe query string false "today, yesterday, week, month or all"
// @Param all query bool false "delete every record, ignoring the filter"
// @Success 200 {object} deleteResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 413 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /logs [delete]
func (h *LogHandler) deleteMany(c *gin.Context) {
	h.limitBody(c)
	values, err := mergeBodyParams(c.Request)
	if err != nil {
		badBody(c, err)
		return
	}
	params := logquery.ParseParams(values, h.Options)
	n, err := h.Logs.Delete(c.Request.Context(), params.Filter(h.now()), params.All)
	if err != nil {
		Fail(c, h.Logger, err)
		return
	}
	Ok(c, http.StatusOK, deleteResponse{DeletedCount: n})
}

// @Summary Per-player activity
// @Description Log counts per level, last activity and the latest record for every player, most recently active first.
// @Tags logs
// @Security BearerAuth
// @Success 200 {object} playersResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /logs/players [get]
func (h *LogHandler) players(c *gin.Context) {
	stats, err := h.Logs.PlayerStats(c.Request.Context())
	if err != nil {
		Fail(c, h.Logger, err)
		return
	}
	Ok(c, http.StatusOK, playersResponse{Data: stats})
}

// @Summary Get one log record
// @Tags logs
// @Security BearerAuth
// @Param id path string true "record id"
// @Success 200 {object} recordResponse
// @Failure 404 {object} errorResponse
// @Router /logs/{id} [get]
func (h *LogHandler) get(c *gin.Context) {
	record, err := h.Logs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, h.Logger, err)
		return
	}
	Ok(c, http.StatusOK, recordResponse{Data: *record})
}

// @Summary Delete one log record
// @Tags logs
// @Security BearerAuth
// @Param id path string true "record id"
// @Success 200 {object} deleteResponse
// @Failure 404 {object} errorResponse
// @Router /logs/{id} [delete]
func (h *LogHandler) deleteOne(c *gin.Context) {
	if err := h.Logs.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, h.Logger, err)
		return
	}
	Ok(c, http.StatusOK, deleteResponse{DeletedCount: 1})
}

func (h *LogHandler) limitBody(c *gin.Context) {
	if h.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBodyBytes)
	}
}

func badBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(c, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	Error(c, http.StatusBadRequest, "invalid request body")
}

// mergeBodyParams returns the query string with any JSON body fields added.
// Keys present in the query string are not overwritten.
func mergeBodyParams(r *http.Request) (url.Values, error) {
	values := r.URL.Query()
	if r.Body == nil {
		return values, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return values, nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	for key, v := range body {
		if values.Has(key) {
			continue
		}
		s, ok := paramString(v)
		if !ok {
			return nil, errors.New("unsupported value for " + key)
		}
		values.Set(key, s)
	}
	return values, nil
}

func paramString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(t), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}
