package inmemdb

import (
	"sort"
	"strings"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/staff"
)

type staffRepository struct {
	db *DB
}

var _ staff.Repository = (*staffRepository)(nil)

func NewStaffRepository(db *DB) *staffRepository {
	return &staffRepository{db: db}
}

func (repo *staffRepository) CreateStaff(st staff.Staff) (staff.Staff, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.staff[st.ID] = &st
	return st, nil
}

func (repo *staffRepository) GetStaffByID(id string) (staff.Staff, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if st, ok := repo.db.staff[id]; ok {
		return *st, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) FilterStaff(filter staff.QueryFilter) ([]staff.Staff, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	matches := make([]staff.Staff, 0)
	for _, st := range repo.db.staff {
		if !filter.MatchesSearch(st.Name, st.Phone, st.Email) {
			continue
		}
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if filter.Designation != "" && st.Designation != filter.Designation {
			continue
		}
		if filter.BranchID != "" && st.BranchID != filter.BranchID {
			continue
		}
		matches = append(matches, *st)
	}

	asc := filter.SortOrder != core.SortDesc
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		var less bool
		switch filter.SortBy {
		case "name":
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "designation":
			less = a.Designation < b.Designation
		case "joined_at":
			less = a.JoinedAt.Before(b.JoinedAt)
		default:
			return a.CreatedAt.After(b.CreatedAt) // newest first
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

func (repo *staffRepository) UpdateStaff(st staff.Staff) (staff.Staff, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if _, ok := repo.db.staff[st.ID]; !ok {
		return staff.Staff{}, staff.ErrNotFound
	}
	repo.db.staff[st.ID] = &st
	return st, nil
}

func (repo *staffRepository) DeleteStaffByID(id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.staff, id)
	return nil
}

func (repo *staffRepository) CountActiveByDesignation() (map[string]int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	counts := make(map[string]int)
	for _, st := range repo.db.staff {
		if st.Status == staff.StatusActive {
			counts[st.Designation]++
		}
	}
	return counts, nil
}

func (repo *staffRepository) CreateLeaveRequest(lr staff.LeaveRequest) (staff.LeaveRequest, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.leaves[lr.ID] = &lr
	return lr, nil
}

func (repo *staffRepository) GetLeaveRequestByID(id string) (staff.LeaveRequest, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if lr, ok := repo.db.leaves[id]; ok {
		return *lr, nil
	}
	return staff.LeaveRequest{}, staff.ErrLeaveNotFound
}

func (repo *staffRepository) FilterLeaveRequests(filter staff.LeaveQueryFilter) ([]staff.LeaveRequest, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	matches := make([]staff.LeaveRequest, 0)
	for _, lr := range repo.db.leaves {
		if !filter.MatchesSearch(lr.Reason) {
			continue
		}
		if filter.StaffID != "" && lr.StaffID != filter.StaffID {
			continue
		}
		if filter.Status != "" && lr.Status != filter.Status {
			continue
		}
		matches = append(matches, *lr)
	}

	asc := filter.SortOrder != core.SortDesc
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		var less bool
		switch filter.SortBy {
		case "from_date":
			less = a.FromDate.Before(b.FromDate)
		case "status":
			less = a.Status < b.Status
		default:
			return a.CreatedAt.After(b.CreatedAt) // newest first
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

func (repo *staffRepository) UpdateLeaveRequest(lr staff.LeaveRequest) (staff.LeaveRequest, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if _, ok := repo.db.leaves[lr.ID]; !ok {
		return staff.LeaveRequest{}, staff.ErrLeaveNotFound
	}
	repo.db.leaves[lr.ID] = &lr
	return lr, nil
}
