package account

import (
	"context"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edugrade/portal/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrStudentNotFound = core.NewNotFoundError("student account not found")
	ErrTeacherNotFound = core.NewNotFoundError("teacher account not found")
	ErrRegNoExists     = errors.New("Account already exists for this register number")
	ErrEmailExists     = errors.New("Account already exists for this email")

	errStudentCredentials = errors.New("Invalid register number or password")
	errTeacherCredentials = errors.New("Invalid email or password")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudentByRegNo(ctx context.Context, regNo string) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)

		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		GetTeacherByEmail(ctx context.Context, email string) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
	}

	Service struct {
		repo     Repository
		mailSvc  core.EmailService
		validate *validator.Validate
	}
)

func NewService(repo Repository, mailSvc core.EmailService, validate *validator.Validate) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, validate: validate}
}

func (svc *Service) RegisterStudent(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, err
	}
	if _, err := svc.repo.GetStudentByRegNo(ctx, ns.RegNo); err == nil {
		return Student{}, core.NewValidationError(ErrRegNoExists)
	} else if !core.IsNotFound(err) {
		return Student{}, errors.Wrap(err, "checking register number")
	}

	std := Student{
		ID:        uuid.NewString(),
		RegNo:     ns.RegNo,
		Email:     ns.Email,
		CreatedAt: NowFunc().UTC(),
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}
	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: std.Email}},
		Subject:      "Your student account is ready",
		TemplateName: "welcome",
		TemplateData: map[string]string{"RegNo": std.RegNo},
	})
	return std, nil
}

func (svc *Service) RegisterTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	nt.Clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Teacher{}, err
	}
	if _, err := svc.repo.GetTeacherByEmail(ctx, nt.Email); err == nil {
		return Teacher{}, core.NewValidationError(ErrEmailExists)
	} else if !core.IsNotFound(err) {
		return Teacher{}, errors.Wrap(err, "checking email")
	}

	tch := Teacher{
		ID:        uuid.NewString(),
		Name:      nt.Name,
		Email:     nt.Email,
		CreatedAt: NowFunc().UTC(),
	}
	if err := tch.SetPassword(nt.Password); err != nil {
		return Teacher{}, errors.Wrap(err, "hashing password")
	}
	tch, err := svc.repo.CreateTeacher(ctx, tch)
	return tch, errors.Wrap(err, "creating teacher")
}

// AuthenticateStudent checks the credentials and records the login.
func (svc *Service) AuthenticateStudent(ctx context.Context, regNo, pwd string) (Student, error) {
	std, err := svc.repo.GetStudentByRegNo(ctx, core.CleanString(regNo))
	if err != nil {
		if core.IsNotFound(err) {
			return Student{}, core.NewValidationError(errStudentCredentials)
		}
		return Student{}, errors.Wrap(err, "finding student")
	}
	if err = std.CheckPassword(pwd); err != nil {
		return Student{}, core.NewValidationError(errStudentCredentials)
	}
	std.LastLogin = null.TimeFrom(NowFunc().UTC())
	std, err = svc.repo.UpdateStudent(ctx, std)
	return std, errors.Wrap(err, "setting lastLogin")
}

// AuthenticateTeacher checks the credentials and records the login.
func (svc *Service) AuthenticateTeacher(ctx context.Context, email, pwd string) (Teacher, error) {
	tch, err := svc.repo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if core.IsNotFound(err) {
			return Teacher{}, core.NewValidationError(errTeacherCredentials)
		}
		return Teacher{}, errors.Wrap(err, "finding teacher")
	}
	if err = tch.CheckPassword(pwd); err != nil {
		return Teacher{}, core.NewValidationError(errTeacherCredentials)
	}
	tch.LastLogin = null.TimeFrom(NowFunc().UTC())
	tch, err = svc.repo.UpdateTeacher(ctx, tch)
	return tch, errors.Wrap(err, "setting lastLogin")
}

func (svc *Service) GetStudent(ctx context.Context, regNo string) (Student, error) {
	return svc.repo.GetStudentByRegNo(ctx, core.CleanString(regNo))
}

func (svc *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) GetTeacherByEmail(ctx context.Context, email string) (Teacher, error) {
	return svc.repo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
}

// SetStudentPassword replaces the password of a student, without policy checks (admin use).
func (svc *Service) SetStudentPassword(ctx context.Context, regNo, pwd string) error {
	std, err := svc.GetStudent(ctx, regNo)
	if err != nil {
		return err
	}
	if err = std.SetPassword(pwd); err != nil {
		return err
	}
	_, err = svc.repo.UpdateStudent(ctx, std)
	return err
}

// SetTeacherPassword replaces the password of a teacher, without policy checks (admin use).
func (svc *Service) SetTeacherPassword(ctx context.Context, email, pwd string) error {
	tch, err := svc.GetTeacherByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = tch.SetPassword(pwd); err != nil {
		return err
	}
	_, err = svc.repo.UpdateTeacher(ctx, tch)
	return err
}

// UpsertTeacher creates the teacher of email or updates their name and password (admin use).
func (svc *Service) UpsertTeacher(ctx context.Context, name, email, pwd string) (Teacher, error) {
	email = core.CleanString(email, true /* lower */)
	tch, err := svc.repo.GetTeacherByEmail(ctx, email)
	if err != nil && !core.IsNotFound(err) {
		return Teacher{}, err
	}
	if err = tch.SetPassword(pwd); err != nil {
		return Teacher{}, err
	}
	if name = core.CleanString(name); name != "" {
		tch.Name = name
	}
	if tch.ID != "" {
		return svc.repo.UpdateTeacher(ctx, tch)
	}

	tch.ID = uuid.NewString()
	tch.Email = email
	tch.CreatedAt = NowFunc().UTC()
	if tch.Name == "" {
		tch.Name = email
	}
	return svc.repo.CreateTeacher(ctx, tch)
}
