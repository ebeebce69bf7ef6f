package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterDocs serves a short markdown route list at /docs. The full
// contract is under /swagger/index.html.
func RegisterDocs(r *gin.Engine, guard ...gin.HandlerFunc) {
	handlers := append(guard, func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, routesMarkdown)
	})
	r.GET("/docs", handlers...)
}

const routesMarkdown = `# Game Log Service

Collects console logs from game clients and servers and serves them to the
dashboard.

## Auth

Send ` + "`Authorization: Bearer <api key>`" + ` on every /logs route. Health
endpoints are public. Ingestion may be public when the server runs with
auth.public_ingest.

## Routes

- GET /healthz
- GET /readyz
- GET /swagger/index.html
- GET /logs?player=&level=&source=&startDate=&endDate=&search=&timeframe=&page=&limit=&sort=&order=
- POST /logs  {level, message, source?, player?, userId?, context?, timestamp?}
- DELETE /logs?<filter>&all=  (filter may also be sent as a JSON body)
- GET /logs/players
- GET /logs/{id}
- DELETE /logs/{id}

## Responses

- list: {data, pagination: {total, page, limit, totalPages}, filters: {players}}
- create: 201 {data}
- delete: {deletedCount}
- errors: {error}

Timestamps are RFC 3339 in UTC.
`
