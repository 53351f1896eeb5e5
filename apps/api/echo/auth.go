package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/account"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"

	contextTokenKey = "userToken"
	tokenAudience   = "EduGrade portal"
)

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
// Subject is the register number of a student or the ID of a teacher.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Role         string `json:"role"`
	RegNo        string `json:"reg_no,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
}

func (c Claims) IsStudent() bool { return c.Role == RoleStudent }
func (c Claims) IsTeacher() bool { return c.Role == RoleTeacher }

// Identity is the caller, as attached to logged errors.
func (c Claims) Identity() core.Identity {
	return core.Identity{ID: c.Subject, Name: c.Name, Email: c.Email, Role: c.Role}
}

func newClaims(conf *core.Config, subject string, origIat []int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   subject,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
	}
}

func StudentClaims(conf *core.Config, std account.Student, origIat ...int64) *Claims {
	claims := newClaims(conf, std.RegNo, origIat)
	claims.Role = RoleStudent
	claims.RegNo = std.RegNo
	claims.Email = std.Email
	return claims
}

func TeacherClaims(conf *core.Config, tch account.Teacher, origIat ...int64) *Claims {
	claims := newClaims(conf, tch.ID, origIat)
	claims.Role = RoleTeacher
	claims.Email = tch.Email
	claims.Name = tch.Name
	return claims
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// refreshToken issues a new token for the account behind the context token, within the refresh window.
func refreshToken(ctx echo.Context, conf *core.Config, svc *account.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	// the account must still exist
	var newClaims *Claims
	switch claims.Role {
	case RoleStudent:
		std, err := svc.GetStudent(ctx.Request().Context(), claims.RegNo)
		if err != nil {
			if core.IsNotFound(err) {
				return "", errUnauthorized
			}
			return "", errors.Wrap(err, "finding student")
		}
		newClaims = StudentClaims(conf, std, claims.OrigIssuedAt)
	case RoleTeacher:
		tch, err := svc.GetTeacher(ctx.Request().Context(), claims.Subject)
		if err != nil {
			if core.IsNotFound(err) {
				return "", errUnauthorized
			}
			return "", errors.Wrap(err, "finding teacher")
		}
		newClaims = TeacherClaims(conf, tch, claims.OrigIssuedAt)
	default:
		return "", errUnauthorized
	}

	token, err := GenerateToken(conf, newClaims)
	return token, errors.Wrap(err, "generating token")
}
