package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrBranchNotFound   = errors.New("branch not found")
	ErrClassNotFound    = errors.New("class not found")
	ErrDivisionNotFound = errors.New("division not found")
	ErrYearNotFound     = errors.New("academic year not found")
	ErrNoActiveYear     = errors.New("no active academic year")
)

type (
	Repository interface {
		CreateBranch(b Branch) (Branch, error)
		GetBranchByID(id string) (Branch, error)
		QueryAllBranches() ([]Branch, error)

		CreateClass(c Class) (Class, error)
		GetClassByID(id string) (Class, error)
		QueryAllClasses() ([]Class, error)

		CreateDivision(d Division) (Division, error)
		GetDivisionByID(id string) (Division, error)
		QueryDivisions(classID, branchID string) ([]Division, error)

		CreateAcademicYear(y AcademicYear) (AcademicYear, error)
		GetAcademicYearByID(id string) (AcademicYear, error)
		GetActiveAcademicYear() (AcademicYear, error)
		QueryAllAcademicYears() ([]AcademicYear, error)
		// DeactivateAcademicYears clears the active flag on every year.
		DeactivateAcademicYears() error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateBranch(nb NewBranch) (Branch, error) {
	now := time.Now().UTC()
	return svc.repo.CreateBranch(Branch{
		ID:        uuid.NewString(),
		Name:      nb.Name,
		Code:      nb.Code,
		Address:   nb.Address,
		Phone:     nb.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetBranch(id string) (Branch, error) { return svc.repo.GetBranchByID(id) }
func (svc *Service) Branches() ([]Branch, error)         { return svc.repo.QueryAllBranches() }

func (svc *Service) CreateClass(nc NewClass) (Class, error) {
	now := time.Now().UTC()
	return svc.repo.CreateClass(Class{
		ID:        uuid.NewString(),
		Name:      nc.Name,
		Level:     nc.Level,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetClass(id string) (Class, error) { return svc.repo.GetClassByID(id) }
func (svc *Service) Classes() ([]Class, error)         { return svc.repo.QueryAllClasses() }

func (svc *Service) CreateDivision(nd NewDivision) (Division, error) {
	if _, err := svc.repo.GetClassByID(nd.ClassID); err != nil {
		return Division{}, err
	}
	if _, err := svc.repo.GetBranchByID(nd.BranchID); err != nil {
		return Division{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateDivision(Division{
		ID:        uuid.NewString(),
		Name:      nd.Name,
		ClassID:   nd.ClassID,
		BranchID:  nd.BranchID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Divisions(classID, branchID string) ([]Division, error) {
	return svc.repo.QueryDivisions(classID, branchID)
}

// CreateAcademicYear creates a year; when marked active, every other year is
// deactivated first so at most one stays active.
func (svc *Service) CreateAcademicYear(ny NewAcademicYear) (AcademicYear, error) {
	if ny.IsActive {
		if err := svc.repo.DeactivateAcademicYears(); err != nil {
			return AcademicYear{}, errors.Wrap(err, "deactivating academic years")
		}
	}
	now := time.Now().UTC()
	return svc.repo.CreateAcademicYear(AcademicYear{
		ID:        uuid.NewString(),
		Name:      ny.Name,
		StartDate: ny.StartDate.UTC(),
		EndDate:   ny.EndDate.UTC(),
		IsActive:  ny.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) ActiveYear() (AcademicYear, error) {
	return svc.repo.GetActiveAcademicYear()
}

func (svc *Service) AcademicYears() ([]AcademicYear, error) {
	return svc.repo.QueryAllAcademicYears()
}
