package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/user"
)

type classroomApi struct {
	svc     classroom.Service
	userSvc user.Service
}

func registerClassroomAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc classroom.Service, userSvc user.Service) {
	api := classroomApi{svc: svc, userSvc: userSvc}

	cg := g.Group("/classrooms", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, adminMiddleware())
	cg.GET("/:id/students", api.queryStudents)

	sg := g.Group("/students", jwt)
	sg.POST("", api.createStudent, adminMiddleware())
}

// ClassroomResponse adds the enrolled-student count to a classroom for list
// views.
type ClassroomResponse struct {
	classroom.Classroom
	StudentCount int `json:"student_count"`
}

// Handlers

// query lists classrooms scoped to the acting user: an admin sees all of them,
// a teacher only the classrooms carrying their uid.
func (api *classroomApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	classrooms, err := api.svc.ForUser(reqCtx, usr)
	if err != nil {
		return wrapStoreErr(err, "querying classrooms")
	}
	counts, err := api.svc.StudentCounts(reqCtx, classrooms)
	if err != nil {
		return wrapStoreErr(err, "counting students")
	}

	resp := make([]ClassroomResponse, 0, len(classrooms))
	for _, cls := range classrooms {
		resp = append(resp, ClassroomResponse{Classroom: cls, StudentCount: counts[cls.ID]})
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *classroomApi) create(ctx echo.Context) error {
	var data classroom.NewClassroom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassroom")
	}

	cls, err := api.svc.CreateClassroom(ctx.Request().Context(), data)
	if err != nil {
		return wrapStoreErr(err, "creating classroom")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classroomApi) queryStudents(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id := ctx.Param("id")

	if _, err := api.svc.GetByID(reqCtx, id); err != nil {
		if errors.Cause(err) == classroom.ErrNotFound {
			return errHttpNotFound
		}
		return wrapStoreErr(err, "finding classroom by ID")
	}

	students, err := api.svc.Students(reqCtx, id)
	if err != nil {
		return wrapStoreErr(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *classroomApi) createStudent(ctx echo.Context) error {
	var data classroom.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	stu, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == classroom.ErrNotFound {
			return errHttpNotFound
		}
		return wrapStoreErr(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}
