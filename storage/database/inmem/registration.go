package inmemdb

import (
	"sort"
	"strings"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/registration"
)

type registrationRepository struct {
	db *DB
}

var _ registration.Repository = (*registrationRepository)(nil)

func NewRegistrationRepository(db *DB) *registrationRepository {
	return &registrationRepository{db: db}
}

func (repo *registrationRepository) CreateRegistration(reg registration.Registration) (registration.Registration, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.registrations[reg.ID] = &reg
	return reg, nil
}

func (repo *registrationRepository) GetRegistrationByID(id string) (registration.Registration, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if reg, ok := repo.db.registrations[id]; ok {
		return *reg, nil
	}
	return registration.Registration{}, registration.ErrNotFound
}

func (repo *registrationRepository) FilterRegistrations(filter registration.QueryFilter) ([]registration.Registration, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	matches := make([]registration.Registration, 0)
	for _, reg := range repo.db.registrations {
		if !filter.MatchesSearch(reg.StudentName, reg.ParentMobile, reg.Email) {
			continue
		}
		if filter.Status != "" && reg.Status != filter.Status {
			continue
		}
		if filter.BranchID != "" && reg.InterestedBranchID != filter.BranchID {
			continue
		}
		matches = append(matches, *reg)
	}

	asc := filter.SortOrder != core.SortDesc
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		var less bool
		switch filter.SortBy {
		case "student_name":
			less = strings.ToLower(a.StudentName) < strings.ToLower(b.StudentName)
		case "status":
			less = a.Status < b.Status
		case "submitted_at":
			less = a.SubmittedAt.Before(b.SubmittedAt)
		default:
			return a.SubmittedAt.After(b.SubmittedAt) // newest first
		}
		if asc {
			return less
		}
		return !less
	})

	count := len(matches)
	lo, hi := core.PageBounds(count, filter.Page, filter.PageSize)
	return matches[lo:hi], count, nil
}

func (repo *registrationRepository) UpdateRegistration(reg registration.Registration) (registration.Registration, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if _, ok := repo.db.registrations[reg.ID]; !ok {
		return registration.Registration{}, registration.ErrNotFound
	}
	repo.db.registrations[reg.ID] = &reg
	return reg, nil
}

func (repo *registrationRepository) CountByStatus() (map[string]int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	counts := make(map[string]int)
	for _, reg := range repo.db.registrations {
		counts[reg.Status]++
	}
	return counts, nil
}
