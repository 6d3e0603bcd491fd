package student

import (
	"strings"
	"time"

	"github.com/kicentre/madrasa/core"
)

// Student categories
const (
	CategoryPermanent = "PERMANENT"
	CategoryTemporary = "TEMPORARY"
)

// Student statuses
const (
	StatusActive      = "ACTIVE"
	StatusInactive    = "INACTIVE"
	StatusGraduated   = "GRADUATED"
	StatusTransferred = "TRANSFERRED"
	StatusDropped     = "DROPPED"
)

// Enrollment statuses
const (
	EnrollmentEnrolled  = "ENROLLED"
	EnrollmentPromoted  = "PROMOTED"
	EnrollmentWithdrawn = "WITHDRAWN"
)

// Student is the master record; year-specific class/division assignment lives
// in Enrollment, one record per academic year.
type Student struct {
	ID              string     `json:"id"`
	AdmissionNumber string     `json:"admission_number"` // auto-generated: WAKR0001, NAJM0023, ...
	Name            string     `json:"name"`
	Gender          string     `json:"gender"`
	DOB             time.Time  `json:"dob"`
	Category        string     `json:"category"`
	Status          string     `json:"status"`
	BranchID        string     `json:"branch_id"`
	RegistrationID  string     `json:"registration_id,omitempty"`
	IDCardType      string     `json:"id_card_type,omitempty"`
	IDCardNumber    string     `json:"id_card_number,omitempty"`
	FatherName      string     `json:"father_name,omitempty"`
	MotherName      string     `json:"mother_name,omitempty"`
	ParentMobile    string     `json:"parent_mobile,omitempty"`
	Email           string     `json:"email,omitempty"`
	HasSiblings     bool       `json:"has_siblings"`
	Notes           string     `json:"notes,omitempty"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	ActivatedByID   string     `json:"activated_by_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// CurrentEnrollment is the active-year enrollment, when loaded.
	CurrentEnrollment *Enrollment `json:"current_enrollment,omitempty"`
}

// Enrollment assigns a student to a class+division for one academic year.
// Records are never overwritten; promotion creates a new one.
type Enrollment struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	AcademicYearID string    `json:"academic_year_id"`
	ClassID        string    `json:"class_id"`
	DivisionID     string    `json:"division_id,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type NewStudent struct {
	Name         string    `json:"name" validate:"required"`
	Gender       string    `json:"gender" validate:"required,oneof=Male Female"`
	DOB          time.Time `json:"dob" validate:"required"`
	Category     string    `json:"category" validate:"required,oneof=PERMANENT TEMPORARY"`
	BranchID     string    `json:"branch_id" validate:"required"`
	ClassID      string    `json:"class_id" validate:"required"`
	DivisionID   string    `json:"division_id"`
	IDCardType   string    `json:"id_card_type" validate:"omitempty,oneof=QID PASSPORT"`
	IDCardNumber string    `json:"id_card_number"`
	FatherName   string    `json:"father_name" validate:"required"`
	MotherName   string    `json:"mother_name"`
	ParentMobile string    `json:"parent_mobile" validate:"required"`
	Email        string    `json:"email" validate:"omitempty,email"`
	HasSiblings  bool      `json:"has_siblings"`
	Notes        string    `json:"notes"`

	// set by the registration approval flow, not by API callers
	RegistrationID string `json:"-"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.FatherName = core.CleanString(ns.FatherName)
	ns.MotherName = core.CleanString(ns.MotherName)
	ns.ParentMobile = core.CleanString(ns.ParentMobile)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.Validate.Struct(ns)
}

type UpdateStudent struct {
	Name         string     `json:"name"`
	Gender       string     `json:"gender" validate:"omitempty,oneof=Male Female"`
	DOB          *time.Time `json:"dob"`
	Category     string     `json:"category" validate:"omitempty,oneof=PERMANENT TEMPORARY"`
	Status       string     `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE GRADUATED TRANSFERRED DROPPED"`
	BranchID     string     `json:"branch_id"`
	IDCardType   string     `json:"id_card_type" validate:"omitempty,oneof=QID PASSPORT"`
	IDCardNumber string     `json:"id_card_number"`
	FatherName   string     `json:"father_name"`
	MotherName   string     `json:"mother_name"`
	ParentMobile string     `json:"parent_mobile"`
	Email        string     `json:"email" validate:"omitempty,email"`
	HasSiblings  *bool      `json:"has_siblings"`
	Notes        *string    `json:"notes"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	return core.Validate.Struct(us)
}

// QueryFilter narrows student list queries. Search matches name, admission
// number or parent mobile.
type QueryFilter struct {
	core.ListQuery
	Status     string `query:"status"`
	Category   string `query:"category"`
	BranchID   string `query:"branch"`
	ClassID    string `query:"class"`
	DivisionID string `query:"division"`
}

func (qf *QueryFilter) Clean() {
	qf.ListQuery.Clean()
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
	qf.Category = strings.ToUpper(core.CleanString(qf.Category))
	qf.BranchID = core.CleanString(qf.BranchID)
}
