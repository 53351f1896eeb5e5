package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/account"
	emailsvc "github.com/edugrade/portal/services/email"
	dummydb "github.com/edugrade/portal/storage/database/dummy"
	testutil "github.com/edugrade/portal/tests"
)

const pwd = "Tr0ub4dor&3"

func newTestService(t *testing.T) (*account.Service, account.Repository) {
	conf := core.NewTestConfig()
	core.ParseEmailTemplates(conf, testutil.NopLogger{})
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewAccountRepository(db)
	validate, _ := testutil.NewValidator()
	return account.NewService(repo, emailsvc.NewConsoleServiceMock(conf), validate), repo
}

func fieldTags(err error) map[string]string {
	tags := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			tags[fe.Field()] = fe.Tag()
		}
	}
	return tags
}

func TestService_RegisterStudent(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.CreateStudent(t, repo, "21CS001", "asha@school.edu", pwd)

	tests := []struct {
		name     string
		data     account.NewStudent
		wantTags map[string]string
		wantErr  string
	}{
		{name: "empty", data: account.NewStudent{}, wantTags: map[string]string{"regNo": "required", "email": "required", "password": "required"}},
		{name: "bad regNo & email", data: account.NewStudent{RegNo: "a b", Email: "nope", Password: pwd}, wantTags: map[string]string{"regNo": "regno", "email": "email"}},
		{name: "short password", data: account.NewStudent{RegNo: "21CS002", Email: "ravi@school.edu", Password: "aB3$"}, wantTags: map[string]string{"password": "pwdminlen"}},
		{name: "numeric password", data: account.NewStudent{RegNo: "21CS002", Email: "ravi@school.edu", Password: "1234567890"}, wantTags: map[string]string{"password": "pwdnotallnum"}},
		{name: "password with space", data: account.NewStudent{RegNo: "21CS002", Email: "ravi@school.edu", Password: "Tr0ub 4dor&3"}, wantTags: map[string]string{"password": "pwdnospace"}},
		{name: "password like regNo", data: account.NewStudent{RegNo: "21CS002XYZ", Email: "ravi@school.edu", Password: "21cs002xyz"}, wantTags: map[string]string{"password": "pwdtoosim"}},
		{name: "duplicate regNo", data: account.NewStudent{RegNo: " 21CS001 ", Email: "other@school.edu", Password: pwd}, wantErr: "Account already exists for this register number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterStudent(context.Background(), tt.data)
			require.Error(t, err)
			if tt.wantErr != "" {
				var verr *core.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.wantTags, fieldTags(err))
		})
	}

	t.Run("ok", func(t *testing.T) {
		std, err := svc.RegisterStudent(context.Background(), account.NewStudent{RegNo: " 21CS002 ", Email: "Ravi@School.edu", Password: pwd})
		require.NoError(t, err)
		assert.Equal(t, "21CS002", std.RegNo)
		assert.Equal(t, "ravi@school.edu", std.Email)
		assert.NotEmpty(t, std.ID)
		assert.NoError(t, std.CheckPassword(pwd))

		msgs := emailsvc.SentTo("ravi@school.edu")
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0].TextContent, "21CS002")
	})
}

func TestService_RegisterTeacher(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.CreateTeacher(t, repo, "Meena", "meena@school.edu", pwd)

	_, err := svc.RegisterTeacher(context.Background(), account.NewTeacher{Name: "Other", Email: "MEENA@school.edu", Password: pwd})
	assert.EqualError(t, err, "Account already exists for this email")

	_, err = svc.RegisterTeacher(context.Background(), account.NewTeacher{Name: "  ", Email: "x@school.edu", Password: pwd})
	assert.Equal(t, map[string]string{"name": "required"}, fieldTags(err))

	tch, err := svc.RegisterTeacher(context.Background(), account.NewTeacher{Name: " Kumar ", Email: "kumar@school.edu", Password: pwd})
	require.NoError(t, err)
	assert.Equal(t, "Kumar", tch.Name)
	got, err := svc.GetTeacher(context.Background(), tch.ID)
	require.NoError(t, err)
	assert.Equal(t, "kumar@school.edu", got.Email)
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.CreateStudent(t, repo, "21CS001", "asha@school.edu", pwd)
	testutil.CreateTeacher(t, repo, "Meena", "meena@school.edu", pwd)

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	account.NowFunc = func() time.Time { return now }
	defer func() { account.NowFunc = time.Now }()

	t.Run("student", func(t *testing.T) {
		_, err := svc.AuthenticateStudent(context.Background(), "21CS001", "wrong")
		assert.EqualError(t, err, "Invalid register number or password")
		_, err = svc.AuthenticateStudent(context.Background(), "21CS999", pwd)
		assert.EqualError(t, err, "Invalid register number or password")

		std, err := svc.AuthenticateStudent(context.Background(), " 21CS001", pwd)
		require.NoError(t, err)
		assert.True(t, std.LastLogin.Valid)
		assert.Equal(t, now, std.LastLogin.Time)
	})

	t.Run("teacher", func(t *testing.T) {
		_, err := svc.AuthenticateTeacher(context.Background(), "meena@school.edu", "wrong")
		assert.EqualError(t, err, "Invalid email or password")

		tch, err := svc.AuthenticateTeacher(context.Background(), "Meena@School.edu ", pwd)
		require.NoError(t, err)
		assert.Equal(t, now, tch.LastLogin.Time)
	})
}

func TestService_Passwords(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.CreateStudent(t, repo, "21CS001", "asha@school.edu", pwd)

	require.NoError(t, svc.SetStudentPassword(context.Background(), "21CS001", "n3w-secret"))
	_, err := svc.AuthenticateStudent(context.Background(), "21CS001", "n3w-secret")
	assert.NoError(t, err)

	err = svc.SetStudentPassword(context.Background(), "21CS404", "n3w-secret")
	assert.True(t, core.IsNotFound(err))

	err = svc.SetTeacherPassword(context.Background(), "nobody@school.edu", "n3w-secret")
	assert.True(t, core.IsNotFound(err))
}

func TestService_UpsertTeacher(t *testing.T) {
	svc, _ := newTestService(t)

	tch, err := svc.UpsertTeacher(context.Background(), "", "New@School.edu", pwd)
	require.NoError(t, err)
	assert.Equal(t, "new@school.edu", tch.Name)
	assert.Equal(t, "new@school.edu", tch.Email)

	upd, err := svc.UpsertTeacher(context.Background(), "Nila", "new@school.edu", "an0ther-one")
	require.NoError(t, err)
	assert.Equal(t, tch.ID, upd.ID)
	assert.Equal(t, "Nila", upd.Name)

	_, err = svc.AuthenticateTeacher(context.Background(), "new@school.edu", "an0ther-one")
	assert.NoError(t, err)
}
