package dummydb

import (
	"context"

	"github.com/edugrade/portal/core/account"
)

type accountRepository struct {
	db *accountTables
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) account.Repository {
	return &accountRepository{db: db.account}
}

func (repo *accountRepository) CreateStudent(_ context.Context, s account.Student) (account.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[s.RegNo]; ok {
		return account.Student{}, account.ErrRegNoExists
	}
	repo.db.students[s.RegNo] = &s
	return s, nil
}

func (repo *accountRepository) GetStudentByRegNo(_ context.Context, regNo string) (account.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.students[regNo]; ok {
		return *std, nil
	}
	return account.Student{}, account.ErrStudentNotFound
}

func (repo *accountRepository) UpdateStudent(_ context.Context, s account.Student) (account.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.students[s.RegNo]
	if !ok || orig.ID != s.ID {
		return account.Student{}, account.ErrStudentNotFound
	}
	if s.PasswordHash != nil {
		orig.PasswordHash = s.PasswordHash
	}
	orig.Email = s.Email
	orig.LastLogin = s.LastLogin
	return *orig, nil
}

func (repo *accountRepository) CreateTeacher(_ context.Context, t account.Teacher) (account.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, tch := range repo.db.teachers {
		if tch.Email == t.Email {
			return account.Teacher{}, account.ErrEmailExists
		}
	}
	repo.db.teachers[t.ID] = &t
	return t, nil
}

func (repo *accountRepository) GetTeacherByEmail(_ context.Context, email string) (account.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.Email == email {
			return *tch, nil
		}
	}
	return account.Teacher{}, account.ErrTeacherNotFound
}

func (repo *accountRepository) GetTeacherByID(_ context.Context, id string) (account.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return account.Teacher{}, account.ErrTeacherNotFound
}

func (repo *accountRepository) UpdateTeacher(_ context.Context, t account.Teacher) (account.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.teachers[t.ID]
	if !ok {
		return account.Teacher{}, account.ErrTeacherNotFound
	}
	if t.PasswordHash != nil {
		orig.PasswordHash = t.PasswordHash
	}
	orig.Name = t.Name
	orig.LastLogin = t.LastLogin
	return *orig, nil
}
