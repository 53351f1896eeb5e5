package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core/contribution"
)

type contributionApi struct {
	svc *contribution.Service
}

func registerContributionAPI(g *echo.Group, jwt, bodyLimit echo.MiddlewareFunc, svc *contribution.Service) {
	api := contributionApi{svc: svc}

	// student endpoints
	sg := g.Group("/student", jwt)
	sg.POST("/achievement", api.submitAchievement, bodyLimit, studentMiddleware)
	sg.GET("/achievements/:regNo", api.queryAchievements)
	sg.PUT("/achievement/:id", api.updateAchievement, bodyLimit, studentMiddleware)
	sg.DELETE("/achievement/:id", api.destroyAchievement, studentMiddleware)
	sg.POST("/research", api.submitResearch, bodyLimit, studentMiddleware)
	sg.POST("/internship", api.submitInternship, bodyLimit, studentMiddleware)
	sg.GET("/research-internship/:regNo", api.querySubmissions)

	// teacher endpoints
	tg := g.Group("/teacher", jwt, teacherMiddleware)
	tg.GET("/achievements", api.queryAllAchievements)
	tg.GET("/research-internship", api.reviewQueue)
	tg.POST("/research-internship/:kind/:id/review", api.review)

	// statistics
	cg := g.Group("/contributions", jwt)
	cg.GET("/achievements", api.achievementStats)
	cg.GET("/research-internship", api.submissionStats)
}

// Achievements

func (api *contributionApi) submitAchievement(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data contribution.AchievementForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AchievementForm")
	}
	file, closeFile, err := formFile(ctx, "file")
	if err != nil {
		return err
	}
	defer closeFile()

	ach, err := api.svc.SubmitAchievement(ctx.Request().Context(), claims.RegNo, data, file)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Achievement submitted successfully", "achievement": ach})
}

func (api *contributionApi) queryAchievements(ctx echo.Context) error {
	regNo := ctx.Param("regNo")
	if err := ownRecordsOnly(ctx, regNo); err != nil {
		return err
	}
	achs, err := api.svc.ListAchievements(ctx.Request().Context(), regNo)
	if err != nil {
		return errors.Wrap(err, "listing achievements")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"achievements": orEmpty(achs)})
}

func (api *contributionApi) queryAllAchievements(ctx echo.Context) error {
	achs, err := api.svc.ListAchievements(ctx.Request().Context(), "")
	if err != nil {
		return errors.Wrap(err, "listing achievements")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"achievements": orEmpty(achs)})
}

func (api *contributionApi) updateAchievement(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data contribution.AchievementForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AchievementForm")
	}
	file, closeFile, err := formFile(ctx, "file")
	if err != nil {
		return err
	}
	defer closeFile()

	ach, err := api.svc.UpdateAchievement(ctx.Request().Context(), ctx.Param("id"), claims.RegNo, data, file)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Achievement updated successfully", "achievement": ach})
}

func (api *contributionApi) destroyAchievement(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err = api.svc.DeleteAchievement(ctx.Request().Context(), ctx.Param("id"), claims.RegNo); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Achievement deleted successfully"})
}

// Research & internships

func (api *contributionApi) submitResearch(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data contribution.ResearchForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResearchForm")
	}
	file, closeFile, err := formFile(ctx, "file")
	if err != nil {
		return err
	}
	defer closeFile()

	res, err := api.svc.SubmitResearch(ctx.Request().Context(), claims.RegNo, data, file)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Research submitted successfully", "submission": res})
}

func (api *contributionApi) submitInternship(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data contribution.InternshipForm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to InternshipForm")
	}
	certificate, closeFile, err := formFile(ctx, "certificate")
	if err != nil {
		return err
	}
	defer closeFile()

	intern, err := api.svc.SubmitInternship(ctx.Request().Context(), claims.RegNo, data, certificate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Internship submitted successfully", "submission": intern})
}

func (api *contributionApi) querySubmissions(ctx echo.Context) error {
	regNo := ctx.Param("regNo")
	if err := ownRecordsOnly(ctx, regNo); err != nil {
		return err
	}
	subs, err := api.svc.Submissions(ctx.Request().Context(), "", contribution.SubmissionFilter{RegNo: regNo})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"submissions": subs})
}

func (api *contributionApi) reviewQueue(ctx echo.Context) error {
	var q SubmissionQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to SubmissionQuery")
	}
	subs, err := api.svc.Submissions(ctx.Request().Context(), contribution.Kind(q.Kind), contribution.SubmissionFilter{
		RegNo:  q.RegNo,
		Status: contribution.Status(q.Status),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"submissions": subs})
}

func (api *contributionApi) review(ctx echo.Context) error {
	var data contribution.Review
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Review")
	}
	sub, err := api.svc.Review(ctx.Request().Context(), contribution.Kind(ctx.Param("kind")), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Submission reviewed successfully", "submission": sub})
}

// Statistics

func (api *contributionApi) achievementStats(ctx echo.Context) error {
	var q contribution.StatsQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to StatsQuery")
	}
	if err := ownRecordsOnly(ctx, q.RegNo); err != nil {
		return err
	}
	monthly, err := api.svc.MonthlyAchievements(ctx.Request().Context(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"monthly": monthly})
}

func (api *contributionApi) submissionStats(ctx echo.Context) error {
	var q contribution.StatsQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to StatsQuery")
	}
	if err := ownRecordsOnly(ctx, q.RegNo); err != nil {
		return err
	}
	monthly, err := api.svc.MonthlySubmissions(ctx.Request().Context(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"monthly": monthly})
}

type SubmissionQuery struct {
	Kind   string `query:"kind"`
	Status string `query:"status"`
	RegNo  string `query:"regNo"`
}

func orEmpty(achs []contribution.Achievement) []contribution.Achievement {
	if achs == nil {
		return []contribution.Achievement{}
	}
	return achs
}
