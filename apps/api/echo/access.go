package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pepschool/obshub/core/access"
)

type accessLogApi struct {
	logs access.LogRepository
}

func registerAccessLogAPI(g *echo.Group, jwt echo.MiddlewareFunc, logs access.LogRepository) {
	api := accessLogApi{logs: logs}

	ag := g.Group("/access-logs", jwt, adminMiddleware())
	ag.GET("", api.query)
}

func (api *accessLogApi) query(ctx echo.Context) error {
	entries, err := api.logs.QueryAccessLogs(ctx.Request().Context())
	if err != nil {
		return wrapStoreErr(err, "querying access logs")
	}
	return ctx.JSON(http.StatusOK, entries)
}
