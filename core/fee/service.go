package fee

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
)

var (
	ErrStructureNotFound  = errors.New("fee structure not found")
	ErrCollectionNotFound = errors.New("fee collection not found")
	ErrNotPending         = errors.New("fee collection is not pending")
)

type (
	Repository interface {
		CreateStructure(s Structure) (Structure, error)
		QueryStructures(academicYearID, classID string) ([]Structure, error)

		CreateCollection(c Collection) (Collection, error)
		GetCollectionByID(id string) (Collection, error)
		// FilterCollections returns the requested page and total match count.
		FilterCollections(filter QueryFilter) ([]Collection, int, error)
		UpdateCollection(c Collection) (Collection, error)
		// CountReceipts counts collections whose receipt number starts with
		// the given prefix; the next serial is count+1.
		CountReceipts(prefix string) (int, error)
		// SumApproved totals approved collection amounts for a student+year.
		SumApproved(studentID, academicYearID string) (int64, error)
		// SumApprovedSince totals approved collection amounts on or after t.
		SumApprovedSince(t time.Time) (int64, error)
	}

	Service struct {
		repo       Repository
		studentSvc *student.Service
		catalogSvc *catalog.Service
	}
)

func NewService(repo Repository, studentSvc *student.Service, catalogSvc *catalog.Service) *Service {
	return &Service{repo: repo, studentSvc: studentSvc, catalogSvc: catalogSvc}
}

func (svc *Service) CreateStructure(ns NewStructure) (Structure, error) {
	if _, err := svc.catalogSvc.GetClass(ns.ClassID); err != nil {
		return Structure{}, core.NewValidationError(err, core.FieldError{Field: "class_id", Error: err.Error()})
	}
	now := time.Now().UTC()
	return svc.repo.CreateStructure(Structure{
		ID:             uuid.NewString(),
		AcademicYearID: ns.AcademicYearID,
		ClassID:        ns.ClassID,
		Name:           ns.Name,
		Amount:         ns.Amount,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) Structures(academicYearID, classID string) ([]Structure, error) {
	return svc.repo.QueryStructures(academicYearID, classID)
}

// nextReceiptNumber builds ORG-YYYY-MM-NNNN, serialized per month.
func (svc *Service) nextReceiptNumber(date time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%04d-%02d-", core.Conf.OrgCode, date.Year(), int(date.Month()))
	count, err := svc.repo.CountReceipts(prefix)
	if err != nil {
		return "", errors.Wrap(err, "counting receipts")
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// Collect records a fee payment as PENDING until approved.
func (svc *Service) Collect(nc NewCollection, collector user.User) (Collection, error) {
	if _, err := svc.studentSvc.GetByID(nc.StudentID); err != nil {
		return Collection{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
	}

	yearID := nc.AcademicYearID
	if yearID == "" {
		year, err := svc.catalogSvc.ActiveYear()
		if err != nil {
			return Collection{}, errors.Wrap(err, "resolving active academic year")
		}
		yearID = year.ID
	}

	date := nc.CollectionDate
	if date.IsZero() {
		date = time.Now().UTC()
	}
	receipt, err := svc.nextReceiptNumber(date)
	if err != nil {
		return Collection{}, err
	}

	now := time.Now().UTC()
	return svc.repo.CreateCollection(Collection{
		ID:              uuid.NewString(),
		ReceiptNumber:   receipt,
		StudentID:       nc.StudentID,
		AcademicYearID:  yearID,
		CollectionDate:  date,
		CollectedByID:   collector.ID,
		PaymentMethod:   nc.PaymentMethod,
		Amount:          nc.Amount,
		ReferenceNumber: nc.ReferenceNumber,
		Remarks:         nc.Remarks,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (svc *Service) GetCollection(id string) (Collection, error) {
	return svc.repo.GetCollectionByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Collection, int, error) {
	filter.Clean()
	return svc.repo.FilterCollections(filter)
}

// Approve confirms a pending collection.
func (svc *Service) Approve(id string, approver user.User) (Collection, error) {
	return svc.review(id, approver, StatusApproved)
}

// Cancel voids a pending collection.
func (svc *Service) Cancel(id string, approver user.User) (Collection, error) {
	return svc.review(id, approver, StatusCancelled)
}

func (svc *Service) review(id string, approver user.User, status string) (Collection, error) {
	c, err := svc.repo.GetCollectionByID(id)
	if err != nil {
		return Collection{}, err
	}
	if c.Status != StatusPending {
		return Collection{}, core.NewValidationError(ErrNotPending)
	}
	now := time.Now().UTC()
	c.Status = status
	c.ApprovedByID = approver.ID
	c.ApprovedAt = &now
	c.UpdatedAt = now
	return svc.repo.UpdateCollection(c)
}

// StudentBalance computes assessed minus approved payments for the student's
// enrolled class in the given year.
func (svc *Service) StudentBalance(studentID, academicYearID string) (Balance, error) {
	st, err := svc.studentSvc.GetByID(studentID)
	if err != nil {
		return Balance{}, err
	}

	var assessed int64
	if st.CurrentEnrollment != nil {
		structures, err := svc.repo.QueryStructures(academicYearID, st.CurrentEnrollment.ClassID)
		if err != nil {
			return Balance{}, errors.Wrap(err, "querying fee structures")
		}
		for _, s := range structures {
			assessed += s.Amount
		}
	}

	paid, err := svc.repo.SumApproved(studentID, academicYearID)
	if err != nil {
		return Balance{}, errors.Wrap(err, "summing approved collections")
	}

	return Balance{
		StudentID:      studentID,
		AcademicYearID: academicYearID,
		Assessed:       assessed,
		Paid:           paid,
		Outstanding:    assessed - paid,
	}, nil
}

// CollectedSince totals approved collections on or after t (dashboard).
func (svc *Service) CollectedSince(t time.Time) (int64, error) {
	return svc.repo.SumApprovedSince(t)
}
