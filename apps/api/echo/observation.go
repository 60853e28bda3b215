package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/observation"
	"github.com/pepschool/obshub/core/user"
)

type observationApi struct {
	svc     observation.Service
	userSvc user.Service
}

func registerObservationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc observation.Service, userSvc user.Service) {
	api := observationApi{svc: svc, userSvc: userSvc}

	og := g.Group("/observations", jwt)
	og.POST("", api.create)
	og.GET("/stats", api.stats)

	dg := og.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.edit)
	dg.DELETE("", api.destroy)
	dg.PUT("/star", api.star)
	dg.PUT("/reassign", api.reassign)

	// the student timeline
	g.GET("/students/:id/observations", api.timeline, jwt)
}

// mapObsError translates service sentinels into the HTTP vocabulary.
func mapObsError(err error, wrapMsg string) error {
	switch errors.Cause(err) {
	case observation.ErrPermissionDenied:
		return errHttpForbidden
	case observation.ErrNotFound, classroom.ErrNotFound, classroom.ErrStudentNotFound:
		return errHttpNotFound
	}
	return wrapStoreErr(err, wrapMsg)
}

// Handlers

// create records one note per selected student. All-or-nothing is deliberately
// not promised: each student is checked and written independently, and the
// first failure aborts the rest.
func (api *observationApi) create(ctx echo.Context) error {
	var data CreateObservationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CreateObservationRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	created := make([]ObservationResponse, 0, len(data.StudentIDs))
	for _, studentID := range data.StudentIDs {
		obs, err := api.svc.Create(reqCtx, actor, data.forStudent(studentID))
		if err != nil {
			return mapObsError(err, "creating observation")
		}
		created = append(created, newObservationResponse(obs, actor))
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *observationApi) retrieve(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	obs, err := api.svc.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return mapObsError(err, "getting observation")
	}
	return ctx.JSON(http.StatusOK, newObservationResponse(obs, actor))
}

func (api *observationApi) timeline(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter, err := bindTimelineFilter(ctx)
	if err != nil {
		return err
	}

	observations, err := api.svc.Timeline(ctx.Request().Context(), actor, ctx.Param("id"), filter)
	if err != nil {
		return mapObsError(err, "querying timeline")
	}
	return ctx.JSON(http.StatusOK, newObservationResponses(observations, actor))
}

func (api *observationApi) edit(ctx echo.Context) error {
	var data EditObservationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditObservationRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	obs, err := api.svc.Edit(ctx.Request().Context(), actor, ctx.Param("id"), data.Text)
	if err != nil {
		return mapObsError(err, "editing observation")
	}
	return ctx.JSON(http.StatusOK, newObservationResponse(obs, actor))
}

func (api *observationApi) destroy(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.Delete(ctx.Request().Context(), actor, ctx.Param("id")); err != nil {
		return mapObsError(err, "deleting observation")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *observationApi) star(ctx echo.Context) error {
	var data StarObservationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StarObservationRequest")
	}

	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	obs, err := api.svc.SetStarred(ctx.Request().Context(), actor, ctx.Param("id"), data.IsStarred)
	if err != nil {
		return mapObsError(err, "starring observation")
	}
	return ctx.JSON(http.StatusOK, newObservationResponse(obs, actor))
}

func (api *observationApi) reassign(ctx echo.Context) error {
	var data ReassignObservationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReassignObservationRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	obs, err := api.svc.Reassign(ctx.Request().Context(), actor, ctx.Param("id"), data.StudentID)
	if err != nil {
		return mapObsError(err, "reassigning observation")
	}
	return ctx.JSON(http.StatusOK, newObservationResponse(obs, actor))
}

func (api *observationApi) stats(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	summary, err := api.svc.Stats(ctx.Request().Context(), actor)
	if err != nil {
		return mapObsError(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, summary)
}
