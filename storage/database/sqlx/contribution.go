package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core/contribution"
)

const (
	achievementColumns = `id, reg_no, type, date::text AS date, content, location, university_name, file_url,
		submitted_at, created_at`
	researchColumns = `id, reg_no, student_name, department, semester, title, domain, publication_type,
		publisher_name, doi_link, abstract, published_on::text AS published_on, mentor_name, organization, file_url,
		status, review_note, reviewed_at, submitted_at`
	internshipColumns = `id, reg_no, student_name, department, semester, company_name, role,
		start_date::text AS start_date, end_date::text AS end_date, internship_type, supervisor_name, description,
		skills, certificate_url, project_details, status, review_note, reviewed_at, submitted_at`
)

type contributionRepository struct {
	db *sqlx.DB
}

var _ contribution.Repository = (*contributionRepository)(nil) // interface compliance check

func NewContributionRepository(db *sqlx.DB) contribution.Repository {
	return &contributionRepository{db: db}
}

// internshipRow carries the TEXT[] skills column.
type internshipRow struct {
	contribution.InternshipSubmission
	Skills pq.StringArray `db:"skills"`
}

func newInternshipRow(i contribution.InternshipSubmission) internshipRow {
	return internshipRow{InternshipSubmission: i, Skills: pq.StringArray(i.Skills)}
}

func (row internshipRow) submission() contribution.InternshipSubmission {
	i := row.InternshipSubmission
	i.Skills = []string(row.Skills)
	if i.Skills == nil {
		i.Skills = make([]string, 0)
	}
	return i
}

func (repo *contributionRepository) CreateAchievement(ctx context.Context, a contribution.Achievement) (contribution.Achievement, error) {
	q := `INSERT INTO achievement (id, reg_no, type, date, content, location, university_name, file_url,
		submitted_at, created_at)
		VALUES (:id, :reg_no, :type, :date, :content, :location, :university_name, :file_url, :submitted_at, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, a); err != nil {
		return contribution.Achievement{}, errors.Wrap(err, "inserting achievement")
	}
	return a, nil
}

func (repo *contributionRepository) GetAchievement(ctx context.Context, id string) (contribution.Achievement, error) {
	var a contribution.Achievement
	q := `SELECT ` + achievementColumns + ` FROM achievement WHERE id = $1`
	if err := repo.db.GetContext(ctx, &a, q, id); err != nil {
		return contribution.Achievement{}, trapNoRowsErr(err, contribution.ErrAchievementNotFound, "finding achievement")
	}
	return a, nil
}

func (repo *contributionRepository) UpdateAchievement(ctx context.Context, a contribution.Achievement) (contribution.Achievement, error) {
	q := `UPDATE achievement SET type = :type, date = :date, content = :content, location = :location,
		university_name = :university_name, file_url = :file_url, submitted_at = :submitted_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, a)
	if err != nil {
		return contribution.Achievement{}, errors.Wrap(err, "updating achievement")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return contribution.Achievement{}, contribution.ErrAchievementNotFound
	}
	return a, nil
}

func (repo *contributionRepository) DeleteAchievement(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM achievement WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting achievement")
	}
	return nil
}

func (repo *contributionRepository) ListAchievements(ctx context.Context, regNo string) ([]contribution.Achievement, error) {
	q := `SELECT ` + achievementColumns + ` FROM achievement
		WHERE $1::text = '' OR reg_no = $1 ORDER BY submitted_at DESC, id`
	achs := make([]contribution.Achievement, 0)
	if err := repo.db.SelectContext(ctx, &achs, q, regNo); err != nil {
		return nil, errors.Wrap(err, "querying achievements")
	}
	return achs, nil
}

func (repo *contributionRepository) CreateResearch(ctx context.Context, r contribution.ResearchSubmission) (contribution.ResearchSubmission, error) {
	q := `INSERT INTO research_submission (id, reg_no, student_name, department, semester, title, domain,
		publication_type, publisher_name, doi_link, abstract, published_on, mentor_name, organization, file_url, status,
		review_note, reviewed_at, submitted_at)
		VALUES (:id, :reg_no, :student_name, :department, :semester, :title, :domain, :publication_type,
		:publisher_name, :doi_link, :abstract, :published_on, :mentor_name, :organization, :file_url, :status,
		:review_note, :reviewed_at, :submitted_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, r); err != nil {
		return contribution.ResearchSubmission{}, errors.Wrap(err, "inserting research submission")
	}
	return r, nil
}

func (repo *contributionRepository) GetResearch(ctx context.Context, id string) (contribution.ResearchSubmission, error) {
	var r contribution.ResearchSubmission
	q := `SELECT ` + researchColumns + ` FROM research_submission WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return contribution.ResearchSubmission{}, trapNoRowsErr(err, contribution.ErrSubmissionNotFound, "finding research submission")
	}
	return r, nil
}

func (repo *contributionRepository) ReviewResearch(ctx context.Context, r contribution.ResearchSubmission) (contribution.ResearchSubmission, error) {
	q := `UPDATE research_submission SET status = :status, review_note = :review_note, reviewed_at = :reviewed_at
		WHERE id = :id AND status = 'pending'`
	res, err := repo.db.NamedExecContext(ctx, q, r)
	if err != nil {
		return contribution.ResearchSubmission{}, errors.Wrap(err, "updating research submission")
	}
	if err = repo.checkReviewed(ctx, res, "research_submission", r.ID); err != nil {
		return contribution.ResearchSubmission{}, err
	}
	return r, nil
}

func (repo *contributionRepository) ListResearch(ctx context.Context, filter contribution.SubmissionFilter) ([]contribution.ResearchSubmission, error) {
	q := `SELECT ` + researchColumns + ` FROM research_submission
		WHERE ($1::text = '' OR reg_no = $1) AND ($2::text = '' OR status = $2) ORDER BY submitted_at DESC, id`
	subs := make([]contribution.ResearchSubmission, 0)
	if err := repo.db.SelectContext(ctx, &subs, q, filter.RegNo, string(filter.Status)); err != nil {
		return nil, errors.Wrap(err, "querying research submissions")
	}
	return subs, nil
}

func (repo *contributionRepository) CreateInternship(ctx context.Context, i contribution.InternshipSubmission) (contribution.InternshipSubmission, error) {
	q := `INSERT INTO internship_submission (id, reg_no, student_name, department, semester, company_name, role,
		start_date, end_date, internship_type, supervisor_name, description, skills, certificate_url, project_details,
		status, review_note, reviewed_at, submitted_at)
		VALUES (:id, :reg_no, :student_name, :department, :semester, :company_name, :role, :start_date, :end_date,
		:internship_type, :supervisor_name, :description, :skills, :certificate_url, :project_details, :status,
		:review_note, :reviewed_at, :submitted_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newInternshipRow(i)); err != nil {
		return contribution.InternshipSubmission{}, errors.Wrap(err, "inserting internship submission")
	}
	return i, nil
}

func (repo *contributionRepository) GetInternship(ctx context.Context, id string) (contribution.InternshipSubmission, error) {
	var row internshipRow
	q := `SELECT ` + internshipColumns + ` FROM internship_submission WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return contribution.InternshipSubmission{}, trapNoRowsErr(err, contribution.ErrSubmissionNotFound, "finding internship submission")
	}
	return row.submission(), nil
}

func (repo *contributionRepository) ReviewInternship(ctx context.Context, i contribution.InternshipSubmission) (contribution.InternshipSubmission, error) {
	q := `UPDATE internship_submission SET status = :status, review_note = :review_note, reviewed_at = :reviewed_at
		WHERE id = :id AND status = 'pending'`
	res, err := repo.db.NamedExecContext(ctx, q, newInternshipRow(i))
	if err != nil {
		return contribution.InternshipSubmission{}, errors.Wrap(err, "updating internship submission")
	}
	if err = repo.checkReviewed(ctx, res, "internship_submission", i.ID); err != nil {
		return contribution.InternshipSubmission{}, err
	}
	return i, nil
}

// checkReviewed tells apart the two reasons a guarded review update can touch no row.
func (repo *contributionRepository) checkReviewed(ctx context.Context, res sql.Result, table, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting reviewed rows")
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err = repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id); err != nil {
		return errors.Wrap(err, "checking submission")
	}
	if exists {
		return contribution.ErrAlreadyReviewed
	}
	return contribution.ErrSubmissionNotFound
}

func (repo *contributionRepository) ListInternships(ctx context.Context, filter contribution.SubmissionFilter) ([]contribution.InternshipSubmission, error) {
	q := `SELECT ` + internshipColumns + ` FROM internship_submission
		WHERE ($1::text = '' OR reg_no = $1) AND ($2::text = '' OR status = $2) ORDER BY submitted_at DESC, id`
	var rows []internshipRow
	if err := repo.db.SelectContext(ctx, &rows, q, filter.RegNo, string(filter.Status)); err != nil {
		return nil, errors.Wrap(err, "querying internship submissions")
	}
	subs := make([]contribution.InternshipSubmission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.submission())
	}
	return subs, nil
}

var monthlyTimeColumn = map[contribution.Source]string{
	contribution.SourceAchievements: "created_at",
	contribution.SourceResearch:     "submitted_at",
	contribution.SourceInternships:  "submitted_at",
}

func (repo *contributionRepository) MonthlyCounts(ctx context.Context, src contribution.Source, regNo string, year int) ([12]int, error) {
	var counts [12]int
	col, ok := monthlyTimeColumn[src]
	if !ok {
		return counts, errors.Errorf("unknown statistics source %q", src)
	}

	q := fmt.Sprintf(`SELECT EXTRACT(MONTH FROM %[1]s AT TIME ZONE 'UTC')::int AS month, COUNT(*) AS count
		FROM %[2]s WHERE reg_no = $1 AND EXTRACT(YEAR FROM %[1]s AT TIME ZONE 'UTC')::int = $2
		GROUP BY month`, col, src)
	var rows []struct {
		Month int `db:"month"`
		Count int `db:"count"`
	}
	if err := repo.db.SelectContext(ctx, &rows, q, regNo, year); err != nil {
		return counts, errors.Wrapf(err, "counting %s per month", src)
	}
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			counts[row.Month-1] = row.Count
		}
	}
	return counts, nil
}
