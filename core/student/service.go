package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/catalog"
)

var (
	ErrNotFound           = errors.New("student not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("student already enrolled for this academic year")
)

type (
	Repository interface {
		CreateStudent(st Student) (Student, error)
		GetStudentByID(id string) (Student, error)
		// FilterStudents returns the requested page and total match count.
		FilterStudents(filter QueryFilter) ([]Student, int, error)
		UpdateStudent(st Student) (Student, error)
		DeleteStudentByID(id string) error
		// CountAdmissions counts students whose admission number starts with
		// the given branch prefix; the next serial is count+1.
		CountAdmissions(prefix string) (int, error)

		CreateEnrollment(e Enrollment) (Enrollment, error)
		GetActiveEnrollment(studentID, academicYearID string) (Enrollment, error)
		QueryEnrollments(studentID string) ([]Enrollment, error)
		UpdateEnrollment(e Enrollment) (Enrollment, error)

		CountByStatus() (map[string]int, error)
		CountActiveByBranch() (map[string]int, error)
	}

	Service struct {
		repo       Repository
		catalogSvc *catalog.Service
	}
)

func NewService(repo Repository, catalogSvc *catalog.Service) *Service {
	return &Service{repo: repo, catalogSvc: catalogSvc}
}

// nextAdmissionNumber builds BRANCHCODE + 4-digit serial, e.g. WAKR0012.
func (svc *Service) nextAdmissionNumber(branch catalog.Branch) (string, error) {
	prefix := strings.ToUpper(branch.Code)
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	count, err := svc.repo.CountAdmissions(prefix)
	if err != nil {
		return "", errors.Wrap(err, "counting admissions")
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// Create registers a student and enrolls them into the active academic year.
func (svc *Service) Create(ns NewStudent) (Student, error) {
	branch, err := svc.catalogSvc.GetBranch(ns.BranchID)
	if err != nil {
		return Student{}, core.NewValidationError(err, core.FieldError{Field: "branch_id", Error: err.Error()})
	}
	if _, err = svc.catalogSvc.GetClass(ns.ClassID); err != nil {
		return Student{}, core.NewValidationError(err, core.FieldError{Field: "class_id", Error: err.Error()})
	}
	year, err := svc.catalogSvc.ActiveYear()
	if err != nil {
		return Student{}, errors.Wrap(err, "resolving active academic year")
	}

	admNo, err := svc.nextAdmissionNumber(branch)
	if err != nil {
		return Student{}, err
	}

	now := time.Now().UTC()
	st, err := svc.repo.CreateStudent(Student{
		ID:              uuid.NewString(),
		AdmissionNumber: admNo,
		Name:            ns.Name,
		Gender:          ns.Gender,
		DOB:             ns.DOB,
		Category:        ns.Category,
		Status:          StatusActive,
		BranchID:        ns.BranchID,
		RegistrationID:  ns.RegistrationID,
		IDCardType:      ns.IDCardType,
		IDCardNumber:    ns.IDCardNumber,
		FatherName:      ns.FatherName,
		MotherName:      ns.MotherName,
		ParentMobile:    ns.ParentMobile,
		Email:           ns.Email,
		HasSiblings:     ns.HasSiblings,
		Notes:           ns.Notes,
		ActivatedAt:     &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Student{}, err
	}

	enr, err := svc.repo.CreateEnrollment(Enrollment{
		ID:             uuid.NewString(),
		StudentID:      st.ID,
		AcademicYearID: year.ID,
		ClassID:        ns.ClassID,
		DivisionID:     ns.DivisionID,
		Status:         EnrollmentEnrolled,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "enrolling student")
	}
	st.CurrentEnrollment = &enr
	return st, nil
}

func (svc *Service) GetByID(id string) (Student, error) {
	st, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if year, yerr := svc.catalogSvc.ActiveYear(); yerr == nil {
		if enr, eerr := svc.repo.GetActiveEnrollment(st.ID, year.ID); eerr == nil {
			st.CurrentEnrollment = &enr
		}
	}
	return st, nil
}

func (svc *Service) Filter(filter QueryFilter) ([]Student, int, error) {
	filter.Clean()
	return svc.repo.FilterStudents(filter)
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	st, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if us.Name != "" {
		st.Name = us.Name
	}
	if us.Gender != "" {
		st.Gender = us.Gender
	}
	if us.DOB != nil {
		st.DOB = *us.DOB
	}
	if us.Category != "" {
		st.Category = us.Category
	}
	if us.Status != "" {
		st.Status = us.Status
	}
	if us.BranchID != "" {
		st.BranchID = us.BranchID
	}
	if us.IDCardType != "" {
		st.IDCardType = us.IDCardType
	}
	if us.IDCardNumber != "" {
		st.IDCardNumber = us.IDCardNumber
	}
	if us.FatherName != "" {
		st.FatherName = us.FatherName
	}
	if us.MotherName != "" {
		st.MotherName = us.MotherName
	}
	if us.ParentMobile != "" {
		st.ParentMobile = us.ParentMobile
	}
	if us.Email != "" {
		st.Email = us.Email
	}
	if us.HasSiblings != nil {
		st.HasSiblings = *us.HasSiblings
	}
	if us.Notes != nil {
		st.Notes = *us.Notes
	}
	st.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(st)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteStudentByID(id)
}

func (svc *Service) Enrollments(studentID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(studentID)
}

// Enroll assigns the student to a class for the given academic year. A second
// enrollment for the same year is rejected.
func (svc *Service) Enroll(studentID, yearID, classID, divisionID string) (Enrollment, error) {
	if _, err := svc.repo.GetStudentByID(studentID); err != nil {
		return Enrollment{}, err
	}
	if _, err := svc.repo.GetActiveEnrollment(studentID, yearID); err == nil {
		return Enrollment{}, core.NewValidationError(ErrAlreadyEnrolled)
	}
	now := time.Now().UTC()
	return svc.repo.CreateEnrollment(Enrollment{
		ID:             uuid.NewString(),
		StudentID:      studentID,
		AcademicYearID: yearID,
		ClassID:        classID,
		DivisionID:     divisionID,
		Status:         EnrollmentEnrolled,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) CountByStatus() (map[string]int, error) {
	return svc.repo.CountByStatus()
}

func (svc *Service) CountActiveByBranch() (map[string]int, error) {
	return svc.repo.CountActiveByBranch()
}
