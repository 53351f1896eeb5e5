package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/edugrade/portal/core/contribution"
)

type contributionRepository struct {
	db *contributionTables
}

var _ contribution.Repository = (*contributionRepository)(nil) // interface compliance check

func NewContributionRepository(db *DB) contribution.Repository {
	return &contributionRepository{db: db.contribution}
}

func (repo *contributionRepository) CreateAchievement(_ context.Context, a contribution.Achievement) (contribution.Achievement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.achievements[a.ID] = &a
	return a, nil
}

func (repo *contributionRepository) GetAchievement(_ context.Context, id string) (contribution.Achievement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.achievements[id]; ok {
		return *a, nil
	}
	return contribution.Achievement{}, contribution.ErrAchievementNotFound
}

func (repo *contributionRepository) UpdateAchievement(_ context.Context, a contribution.Achievement) (contribution.Achievement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.achievements[a.ID]; !ok {
		return contribution.Achievement{}, contribution.ErrAchievementNotFound
	}
	repo.db.achievements[a.ID] = &a
	return a, nil
}

func (repo *contributionRepository) DeleteAchievement(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.achievements, id)
	return nil
}

func (repo *contributionRepository) ListAchievements(_ context.Context, regNo string) ([]contribution.Achievement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	achs := make([]contribution.Achievement, 0)
	for _, a := range repo.db.achievements {
		if regNo == "" || a.RegNo == regNo {
			achs = append(achs, *a)
		}
	}
	sort.Slice(achs, func(i, j int) bool { return newer(achs[i].SubmittedAt, achs[j].SubmittedAt, achs[i].ID, achs[j].ID) })
	return achs, nil
}

func (repo *contributionRepository) CreateResearch(_ context.Context, r contribution.ResearchSubmission) (contribution.ResearchSubmission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.research[r.ID] = &r
	return r, nil
}

func (repo *contributionRepository) GetResearch(_ context.Context, id string) (contribution.ResearchSubmission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.research[id]; ok {
		return *r, nil
	}
	return contribution.ResearchSubmission{}, contribution.ErrSubmissionNotFound
}

func (repo *contributionRepository) ReviewResearch(_ context.Context, r contribution.ResearchSubmission) (contribution.ResearchSubmission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cur, ok := repo.db.research[r.ID]
	if !ok {
		return contribution.ResearchSubmission{}, contribution.ErrSubmissionNotFound
	}
	if cur.Status != contribution.StatusPending {
		return contribution.ResearchSubmission{}, contribution.ErrAlreadyReviewed
	}
	repo.db.research[r.ID] = &r
	return r, nil
}

func (repo *contributionRepository) ListResearch(_ context.Context, filter contribution.SubmissionFilter) ([]contribution.ResearchSubmission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]contribution.ResearchSubmission, 0)
	for _, r := range repo.db.research {
		if matches(filter, r.RegNo, r.Status) {
			subs = append(subs, *r)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return newer(subs[i].SubmittedAt, subs[j].SubmittedAt, subs[i].ID, subs[j].ID) })
	return subs, nil
}

func (repo *contributionRepository) CreateInternship(_ context.Context, i contribution.InternshipSubmission) (contribution.InternshipSubmission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.internships[i.ID] = &i
	return i, nil
}

func (repo *contributionRepository) GetInternship(_ context.Context, id string) (contribution.InternshipSubmission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i, ok := repo.db.internships[id]; ok {
		return *i, nil
	}
	return contribution.InternshipSubmission{}, contribution.ErrSubmissionNotFound
}

func (repo *contributionRepository) ReviewInternship(_ context.Context, i contribution.InternshipSubmission) (contribution.InternshipSubmission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cur, ok := repo.db.internships[i.ID]
	if !ok {
		return contribution.InternshipSubmission{}, contribution.ErrSubmissionNotFound
	}
	if cur.Status != contribution.StatusPending {
		return contribution.InternshipSubmission{}, contribution.ErrAlreadyReviewed
	}
	repo.db.internships[i.ID] = &i
	return i, nil
}

func (repo *contributionRepository) ListInternships(_ context.Context, filter contribution.SubmissionFilter) ([]contribution.InternshipSubmission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]contribution.InternshipSubmission, 0)
	for _, i := range repo.db.internships {
		if matches(filter, i.RegNo, i.Status) {
			subs = append(subs, *i)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return newer(subs[i].SubmittedAt, subs[j].SubmittedAt, subs[i].ID, subs[j].ID) })
	return subs, nil
}

func (repo *contributionRepository) MonthlyCounts(_ context.Context, src contribution.Source, regNo string, year int) ([12]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var counts [12]int
	add := func(owner string, at time.Time) {
		if at = at.UTC(); owner == regNo && at.Year() == year {
			counts[at.Month()-1]++
		}
	}
	switch src {
	case contribution.SourceAchievements:
		for _, a := range repo.db.achievements {
			add(a.RegNo, a.CreatedAt)
		}
	case contribution.SourceResearch:
		for _, r := range repo.db.research {
			add(r.RegNo, r.SubmittedAt)
		}
	case contribution.SourceInternships:
		for _, i := range repo.db.internships {
			add(i.RegNo, i.SubmittedAt)
		}
	}
	return counts, nil
}

func matches(filter contribution.SubmissionFilter, regNo string, status contribution.Status) bool {
	return (filter.RegNo == "" || filter.RegNo == regNo) && (filter.Status == "" || filter.Status == status)
}

// newer orders newest first, ties broken by ID for a stable listing.
func newer(a, b time.Time, idA, idB string) bool {
	if a.Equal(b) {
		return idA < idB
	}
	return a.After(b)
}
