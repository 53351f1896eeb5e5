package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core/account"
)

const (
	studentColumns = `id, reg_no, email, password_hash, created_at, last_login`
	teacherColumns = `id, name, email, password_hash, created_at, last_login`
)

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *sqlx.DB) account.Repository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CreateStudent(ctx context.Context, s account.Student) (account.Student, error) {
	q := `INSERT INTO student_account (` + studentColumns + `)
		VALUES (:id, :reg_no, :email, :password_hash, :created_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		return account.Student{}, trapUniqueErr(err, account.ErrRegNoExists, "inserting student")
	}
	return s, nil
}

func (repo *accountRepository) GetStudentByRegNo(ctx context.Context, regNo string) (account.Student, error) {
	var std account.Student
	q := `SELECT ` + studentColumns + ` FROM student_account WHERE reg_no = $1`
	if err := repo.db.GetContext(ctx, &std, q, regNo); err != nil {
		return account.Student{}, trapNoRowsErr(err, account.ErrStudentNotFound, "finding student")
	}
	return std, nil
}

func (repo *accountRepository) UpdateStudent(ctx context.Context, s account.Student) (account.Student, error) {
	q := `UPDATE student_account SET email = :email, password_hash = :password_hash, last_login = :last_login
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, s)
	if err != nil {
		return account.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return account.Student{}, account.ErrStudentNotFound
	}
	return s, nil
}

func (repo *accountRepository) CreateTeacher(ctx context.Context, t account.Teacher) (account.Teacher, error) {
	q := `INSERT INTO teacher_account (` + teacherColumns + `)
		VALUES (:id, :name, :email, :password_hash, :created_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, t); err != nil {
		return account.Teacher{}, trapUniqueErr(err, account.ErrEmailExists, "inserting teacher")
	}
	return t, nil
}

func (repo *accountRepository) GetTeacherByEmail(ctx context.Context, email string) (account.Teacher, error) {
	var tch account.Teacher
	q := `SELECT ` + teacherColumns + ` FROM teacher_account WHERE email = $1`
	if err := repo.db.GetContext(ctx, &tch, q, email); err != nil {
		return account.Teacher{}, trapNoRowsErr(err, account.ErrTeacherNotFound, "finding teacher")
	}
	return tch, nil
}

func (repo *accountRepository) GetTeacherByID(ctx context.Context, id string) (account.Teacher, error) {
	var tch account.Teacher
	q := `SELECT ` + teacherColumns + ` FROM teacher_account WHERE id::text = $1`
	if err := repo.db.GetContext(ctx, &tch, q, id); err != nil {
		return account.Teacher{}, trapNoRowsErr(err, account.ErrTeacherNotFound, "finding teacher")
	}
	return tch, nil
}

func (repo *accountRepository) UpdateTeacher(ctx context.Context, t account.Teacher) (account.Teacher, error) {
	q := `UPDATE teacher_account SET name = :name, password_hash = :password_hash, last_login = :last_login
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, t)
	if err != nil {
		return account.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return account.Teacher{}, account.ErrTeacherNotFound
	}
	return t, nil
}
