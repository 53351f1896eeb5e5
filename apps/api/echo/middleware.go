package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
)

var (
	studentMiddleware = roleMiddleware(RoleStudent)
	teacherMiddleware = roleMiddleware(RoleTeacher)
)

func roleMiddleware(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.Role == role {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// ownRecordsOnly passes teachers through; students may only reach their own records.
func ownRecordsOnly(ctx echo.Context, regNo string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.IsTeacher() {
		return nil
	}
	if regNo = core.CleanString(regNo); regNo != "" && regNo != claims.RegNo {
		return errHttpForbidden
	}
	return nil
}
