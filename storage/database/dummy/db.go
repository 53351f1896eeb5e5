package dummydb

import (
	"sync"

	"github.com/edugrade/portal/core/account"
	"github.com/edugrade/portal/core/contribution"
	"github.com/edugrade/portal/core/dataset"
)

type (
	// DB is an in-memory store with the same semantics as the SQL repositories, used by tests and dev runs.
	DB struct {
		account      *accountTables
		dataset      *datasetTables
		contribution *contributionTables
	}

	accountTables struct {
		sync.RWMutex
		students map[string]*account.Student // {regNo: student}
		teachers map[string]*account.Teacher // {id: teacher}
	}

	datasetTables struct {
		sync.RWMutex
		datasets []dataset.Dataset
		records  []dataset.StudentRecord
		pkCount  int64
	}

	contributionTables struct {
		sync.RWMutex
		achievements map[string]*contribution.Achievement
		research     map[string]*contribution.ResearchSubmission
		internships  map[string]*contribution.InternshipSubmission
	}
)

func Open() (*DB, error) {
	db := &DB{
		account: &accountTables{
			students: make(map[string]*account.Student),
			teachers: make(map[string]*account.Teacher),
		},
		dataset: &datasetTables{},
		contribution: &contributionTables{
			achievements: make(map[string]*contribution.Achievement),
			research:     make(map[string]*contribution.ResearchSubmission),
			internships:  make(map[string]*contribution.InternshipSubmission),
		},
	}
	return db, nil
}
