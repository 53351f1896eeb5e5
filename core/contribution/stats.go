package contribution

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
)

var months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var (
	ErrStatsQueryRequired = core.NewValidationError(errors.New("regNo and year are required"))
	ErrInvalidYear        = core.NewValidationError(errors.New("year must be a number"))
)

// StatsQuery selects the contributions of a student in a calendar year (UTC).
type StatsQuery struct {
	RegNo string `query:"regNo"`
	Year  string `query:"year"`
}

func (q StatsQuery) parse() (string, int, error) {
	regNo, year := core.CleanString(q.RegNo), core.CleanString(q.Year)
	if regNo == "" || year == "" {
		return "", 0, ErrStatsQueryRequired
	}
	y, err := strconv.Atoi(year)
	if err != nil || y <= 0 {
		return "", 0, ErrInvalidYear
	}
	return regNo, y, nil
}

// MonthlyAchievements counts the achievements of a student per month, always 12 entries from January.
func (svc *Service) MonthlyAchievements(ctx context.Context, q StatsQuery) ([]MonthCount, error) {
	regNo, year, err := q.parse()
	if err != nil {
		return nil, err
	}
	counts, err := svc.repo.MonthlyCounts(ctx, SourceAchievements, regNo, year)
	if err != nil {
		return nil, errors.Wrap(err, "counting achievements")
	}

	monthly := make([]MonthCount, len(months))
	for i, m := range months {
		monthly[i] = MonthCount{Month: m, Count: counts[i]}
	}
	return monthly, nil
}

// MonthlySubmissions counts the research and internship submissions of a student per month.
func (svc *Service) MonthlySubmissions(ctx context.Context, q StatsQuery) ([]SubmissionMonthCount, error) {
	regNo, year, err := q.parse()
	if err != nil {
		return nil, err
	}
	research, err := svc.repo.MonthlyCounts(ctx, SourceResearch, regNo, year)
	if err != nil {
		return nil, errors.Wrap(err, "counting research submissions")
	}
	internships, err := svc.repo.MonthlyCounts(ctx, SourceInternships, regNo, year)
	if err != nil {
		return nil, errors.Wrap(err, "counting internship submissions")
	}

	monthly := make([]SubmissionMonthCount, len(months))
	for i, m := range months {
		monthly[i] = SubmissionMonthCount{Month: m, ResearchCount: research[i], InternshipCount: internships[i]}
	}
	return monthly, nil
}
