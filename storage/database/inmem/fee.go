package inmemdb

import (
	"sort"
	"strings"
	"time"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/fee"
)

type feeRepository struct {
	db *DB
}

var _ fee.Repository = (*feeRepository)(nil)

func NewFeeRepository(db *DB) *feeRepository {
	return &feeRepository{db: db}
}

func (repo *feeRepository) CreateStructure(s fee.Structure) (fee.Structure, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.structures[s.ID] = &s
	return s, nil
}

func (repo *feeRepository) QueryStructures(academicYearID, classID string) ([]fee.Structure, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	matches := make([]fee.Structure, 0)
	for _, s := range repo.db.structures {
		if academicYearID != "" && s.AcademicYearID != academicYearID {
			continue
		}
		if classID != "" && s.ClassID != classID {
			continue
		}
		matches = append(matches, *s)
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func (repo *feeRepository) CreateCollection(c fee.Collection) (fee.Collection, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.collections[c.ID] = &c
	return c, nil
}

func (repo *feeRepository) GetCollectionByID(id string) (fee.Collection, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if c, ok := repo.db.collections[id]; ok {
		return *c, nil
	}
	return fee.Collection{}, fee.ErrCollectionNotFound
}

func (repo *feeRepository) FilterCollections(filter fee.QueryFilter) ([]fee.Collection, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	matches := make([]fee.Collection, 0)
	for _, c := range repo.db.collections {
		if !filter.MatchesSearch(c.ReceiptNumber, c.ReferenceNumber) {
			continue
		}
		if filter.StudentID != "" && c.StudentID != filter.StudentID {
			continue
		}
		if filter.AcademicYearID != "" && c.AcademicYearID != filter.AcademicYearID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Method != "" && c.PaymentMethod != filter.Method {
			continue
		}
		if filter.DateFrom != nil && c.CollectionDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && c.CollectionDate.After(*filter.DateTo) {
			continue
		}
		matches = append(matches, *c)
	}

	asc := filter.SortOrder != core.SortDesc
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		var less bool
		switch filter.SortBy {
		case "receipt_number":
			less = strings.ToLower(a.ReceiptNumber) < strings.ToLower(b.ReceiptNumber)
		case "amount":
			less = a.Amount < b.Amount
		case "collection_date":
			less = a.CollectionDate.Before(b.CollectionDate)
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

func (repo *feeRepository) UpdateCollection(c fee.Collection) (fee.Collection, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if _, ok := repo.db.collections[c.ID]; !ok {
		return fee.Collection{}, fee.ErrCollectionNotFound
	}
	repo.db.collections[c.ID] = &c
	return c, nil
}

func (repo *feeRepository) CountReceipts(prefix string) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	count := 0
	for _, c := range repo.db.collections {
		if strings.HasPrefix(c.ReceiptNumber, prefix) {
			count++
		}
	}
	return count, nil
}

func (repo *feeRepository) SumApproved(studentID, academicYearID string) (int64, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	var total int64
	for _, c := range repo.db.collections {
		if c.Status != fee.StatusApproved || c.StudentID != studentID {
			continue
		}
		if academicYearID != "" && c.AcademicYearID != academicYearID {
			continue
		}
		total += c.Amount
	}
	return total, nil
}

func (repo *feeRepository) SumApprovedSince(t time.Time) (int64, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	var total int64
	for _, c := range repo.db.collections {
		if c.Status == fee.StatusApproved && !c.CollectionDate.Before(t) {
			total += c.Amount
		}
	}
	return total, nil
}
