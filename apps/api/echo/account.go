package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/account"
)

type accountApi struct {
	conf     *core.Config
	svc      *account.Service
	validate *validator.Validate
}

func registerAccountAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	conf *core.Config,
	svc *account.Service,
	validate *validator.Validate,
) {
	api := accountApi{
		conf:     conf,
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/student/register", api.registerStudent)
	ag.POST("/student/login", api.studentLogin)
	ag.POST("/teacher/register", api.registerTeacher)
	ag.POST("/teacher/login", api.teacherLogin)

	// authed endpoints
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

// Handlers

func (api *accountApi) registerStudent(ctx echo.Context) error {
	var data account.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	std, err := api.svc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, RegisterResponse{
		Message: "Student registered successfully",
		RegNo:   std.RegNo,
		Email:   std.Email,
	})
}

func (api *accountApi) registerTeacher(ctx echo.Context) error {
	var data account.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}

	tch, err := api.svc.RegisterTeacher(ctx.Request().Context(), data)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, RegisterResponse{
		Message: "Teacher registered successfully",
		Email:   tch.Email,
	})
}

func (api *accountApi) studentLogin(ctx echo.Context) error {
	var data account.StudentLogin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentLogin")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	std, err := api.svc.AuthenticateStudent(ctx.Request().Context(), data.RegNo, data.Password)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, StudentClaims(api.conf, std))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: RoleStudent, RegNo: std.RegNo, Email: std.Email})
}

func (api *accountApi) teacherLogin(ctx echo.Context) error {
	var data account.TeacherLogin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeacherLogin")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	tch, err := api.svc.AuthenticateTeacher(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, TeacherClaims(api.conf, tch))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: RoleTeacher, Email: tch.Email, Name: tch.Name})
}

func (api *accountApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type (
	RegisterResponse struct {
		Message string `json:"message"`
		RegNo   string `json:"regNo,omitempty"`
		Email   string `json:"email"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role,omitempty"`
		RegNo string `json:"regNo,omitempty"`
		Email string `json:"email,omitempty"`
		Name  string `json:"name,omitempty"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)
