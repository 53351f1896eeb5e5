package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/edugrade/portal/apps/api/echo"
)

func Test_accountApi_register(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "student: invalid data",
			path:     "/api/auth/student/register",
			body:     []byte(`{"regNo": "a b", "email": "nope", "password": ""}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"regNo": "invalid register number", "email": "email must be a valid email address", "password": "this field is required"}`),
		},
		{
			name:     "student: duplicate regNo",
			path:     "/api/auth/student/register",
			body:     []byte(`{"regNo": "21CS001", "email": "other@school.edu", "password": "` + pwd + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Account already exists for this register number"}),
		},
		{
			name:     "student: ok",
			path:     "/api/auth/student/register",
			body:     []byte(`{"regNo": " 21CS002 ", "email": "Bala@School.edu", "password": "` + pwd + `"}`),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, RegisterResponse{Message: "Student registered successfully", RegNo: "21CS002", Email: "bala@school.edu"}),
		},
		{
			name:     "teacher: duplicate email",
			path:     "/api/auth/teacher/register",
			body:     []byte(`{"name": "Ravi", "email": "RAVI@school.edu", "password": "` + pwd + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Account already exists for this email"}),
		},
		{
			name:     "teacher: ok",
			path:     "/api/auth/teacher/register",
			body:     []byte(`{"name": "Meena", "email": "meena@school.edu", "password": "` + pwd + `"}`),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, RegisterResponse{Message: "Teacher registered successfully", Email: "meena@school.edu"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_accountApi_login(t *testing.T) {
	env := setup(t)

	tests := []struct {
		httpTest
		wantResp LoginResponse
	}{
		{
			httpTest: httpTest{
				name:     "student: missing fields",
				path:     "/api/auth/student/login",
				body:     []byte(`{}`),
				wantCode: http.StatusBadRequest,
				wantData: []byte(`{"regNo": "this field is required", "password": "this field is required"}`),
			},
		},
		{
			httpTest: httpTest{
				name:     "student: bad password",
				path:     "/api/auth/student/login",
				body:     []byte(`{"regNo": "21CS001", "password": "wrong"}`),
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, httpErr{Error: "Invalid register number or password"}),
			},
		},
		{
			httpTest: httpTest{
				name:     "student: unknown",
				path:     "/api/auth/student/login",
				body:     []byte(`{"regNo": "21CS999", "password": "` + pwd + `"}`),
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, httpErr{Error: "Invalid register number or password"}),
			},
		},
		{
			httpTest: httpTest{
				name:     "student: ok",
				path:     "/api/auth/student/login",
				body:     []byte(`{"regNo": "21CS001", "password": "` + pwd + `"}`),
				wantCode: http.StatusOK,
			},
			wantResp: LoginResponse{Role: RoleStudent, RegNo: "21CS001", Email: "asha@school.edu"},
		},
		{
			httpTest: httpTest{
				name:     "teacher: bad password",
				path:     "/api/auth/teacher/login",
				body:     []byte(`{"email": "ravi@school.edu", "password": "wrong"}`),
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, httpErr{Error: "Invalid email or password"}),
			},
		},
		{
			httpTest: httpTest{
				name:     "teacher: ok",
				path:     "/api/auth/teacher/login",
				body:     []byte(`{"email": " Ravi@School.edu", "password": "` + pwd + `"}`),
				wantCode: http.StatusOK,
			},
			wantResp: LoginResponse{Role: RoleTeacher, Email: "ravi@school.edu", Name: "Ravi Kumar"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt.httpTest, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				decode(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
				resp.Token = ""
				assert.Equal(t, tt.wantResp, resp)
			}
		})
	}
}

func Test_accountApi_refreshToken(t *testing.T) {
	env := setup(t)
	path := "/api/auth/token-refresh"
	origIat := time.Now().Add(-env.conf.Server.JWTRefreshExpirationDelta).Add(-time.Minute).Unix()

	tests := []httpTest{
		{
			name:     "missing token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "refresh expired",
			token:    getToken(t, env.conf, StudentClaims(env.conf, env.student, origIat)),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{
			name:     "student: ok",
			token:    env.studentToken,
			wantCode: http.StatusOK,
		},
		{
			name:     "teacher: ok",
			token:    env.teacherToken,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				decode(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}
