package inmemdb

import (
	"sort"

	"github.com/kicentre/madrasa/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateBranch(b catalog.Branch) (catalog.Branch, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.branches[b.ID] = &b
	return b, nil
}

func (repo *catalogRepository) GetBranchByID(id string) (catalog.Branch, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if b, ok := repo.db.branches[id]; ok {
		return *b, nil
	}
	return catalog.Branch{}, catalog.ErrBranchNotFound
}

func (repo *catalogRepository) QueryAllBranches() ([]catalog.Branch, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	branches := make([]catalog.Branch, 0, len(repo.db.branches))
	for _, b := range repo.db.branches {
		branches = append(branches, *b)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

func (repo *catalogRepository) CreateClass(c catalog.Class) (catalog.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.classes[c.ID] = &c
	return c, nil
}

func (repo *catalogRepository) GetClassByID(id string) (catalog.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if c, ok := repo.db.classes[id]; ok {
		return *c, nil
	}
	return catalog.Class{}, catalog.ErrClassNotFound
}

func (repo *catalogRepository) QueryAllClasses() ([]catalog.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	classes := make([]catalog.Class, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Level < classes[j].Level })
	return classes, nil
}

func (repo *catalogRepository) CreateDivision(d catalog.Division) (catalog.Division, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.divisions[d.ID] = &d
	return d, nil
}

func (repo *catalogRepository) GetDivisionByID(id string) (catalog.Division, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if d, ok := repo.db.divisions[id]; ok {
		return *d, nil
	}
	return catalog.Division{}, catalog.ErrDivisionNotFound
}

func (repo *catalogRepository) QueryDivisions(classID, branchID string) ([]catalog.Division, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	divisions := make([]catalog.Division, 0)
	for _, d := range repo.db.divisions {
		if classID != "" && d.ClassID != classID {
			continue
		}
		if branchID != "" && d.BranchID != branchID {
			continue
		}
		divisions = append(divisions, *d)
	}
	sort.Slice(divisions, func(i, j int) bool { return divisions[i].Name < divisions[j].Name })
	return divisions, nil
}

func (repo *catalogRepository) CreateAcademicYear(y catalog.AcademicYear) (catalog.AcademicYear, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.years[y.ID] = &y
	return y, nil
}

func (repo *catalogRepository) GetAcademicYearByID(id string) (catalog.AcademicYear, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if y, ok := repo.db.years[id]; ok {
		return *y, nil
	}
	return catalog.AcademicYear{}, catalog.ErrYearNotFound
}

func (repo *catalogRepository) GetActiveAcademicYear() (catalog.AcademicYear, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	for _, y := range repo.db.years {
		if y.IsActive {
			return *y, nil
		}
	}
	return catalog.AcademicYear{}, catalog.ErrNoActiveYear
}

func (repo *catalogRepository) QueryAllAcademicYears() ([]catalog.AcademicYear, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	years := make([]catalog.AcademicYear, 0, len(repo.db.years))
	for _, y := range repo.db.years {
		years = append(years, *y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].StartDate.After(years[j].StartDate) })
	return years, nil
}

func (repo *catalogRepository) DeactivateAcademicYears() error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, y := range repo.db.years {
		y.IsActive = false
	}
	return nil
}
