package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamelog/internal/apperr"
	"gamelog/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type recordResponse struct {
	Data models.LogRecord `json:"data"`
}

type playersResponse struct {
	Data []models.PlayerStat `json:"data"`
}

type pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type listFilters struct {
	Players []string `json:"players"`
}

type listResponse struct {
	Data       []models.LogRecord `json:"data"`
	Pagination pagination         `json:"pagination"`
	Filters    listFilters        `json:"filters"`
}

type deleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

func Ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

// Fail maps err to a status and a client-safe message. Server-side failures
// are logged with their cause.
func Fail(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("kind", apperr.KindOf(err).String()),
			zap.Error(err),
		)
	}
	Error(c, status, apperr.PublicMessage(err))
}
