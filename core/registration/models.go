package registration

import (
	"strings"
	"time"

	"github.com/kicentre/madrasa/core"
)

// Admission types
const (
	AdmissionNew            = "NEW"
	AdmissionExistingUpdate = "EXISTING_UPDATE"
)

// Statuses
const (
	StatusPending       = "PENDING"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
	StatusInfoRequested = "INFO_REQUESTED"
)

// Registration stores an online student registration form submission; a
// temporary record converted to a Student upon approval.
type Registration struct {
	ID            string    `json:"id"`
	SubmittedAt   time.Time `json:"submitted_at"`
	AdmissionType string    `json:"admission_type"`

	// personal details
	StudentName string    `json:"student_name"`
	Gender      string    `json:"gender"`
	DOB         time.Time `json:"dob"`
	StudyType   string    `json:"study_type"` // PERMANENT | TEMPORARY

	IDCardType   string `json:"id_card_type"`
	IDCardNumber string `json:"id_card_number"`

	// family details
	FatherName      string `json:"father_name"`
	MotherName      string `json:"mother_name"`
	ParentMobile    string `json:"parent_mobile"`
	FatherWhatsapp  string `json:"father_whatsapp,omitempty"`
	Email           string `json:"email"`
	SiblingsDetails string `json:"siblings_details,omitempty"`

	// academic preference
	ClassToAdmitID     string `json:"class_to_admit_id,omitempty"`
	InterestedBranchID string `json:"interested_branch_id,omitempty"`
	CompletedClasses   string `json:"completed_classes,omitempty"`
	PreviousMadrasa    string `json:"previous_madrasa,omitempty"`
	TCNumber           string `json:"tc_number,omitempty"`

	// review tracking
	Status             string     `json:"status"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	InfoRequestMessage string     `json:"info_request_message,omitempty"`
	ReviewedByID       string     `json:"reviewed_by_id,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reviewable reports whether the submission may still be approved or
// rejected.
func (r Registration) Reviewable() bool {
	return r.Status == StatusPending || r.Status == StatusInfoRequested
}

// NewRegistration is the public submission payload.
type NewRegistration struct {
	AdmissionType      string    `json:"admission_type" validate:"required,oneof=NEW EXISTING_UPDATE"`
	StudentName        string    `json:"student_name" validate:"required"`
	Gender             string    `json:"gender" validate:"required,oneof=Male Female"`
	DOB                time.Time `json:"dob" validate:"required"`
	StudyType          string    `json:"study_type" validate:"required,oneof=PERMANENT TEMPORARY"`
	IDCardType         string    `json:"id_card_type" validate:"required,oneof=QID PASSPORT"`
	IDCardNumber       string    `json:"id_card_number" validate:"required"`
	FatherName         string    `json:"father_name" validate:"required"`
	MotherName         string    `json:"mother_name" validate:"required"`
	ParentMobile       string    `json:"parent_mobile" validate:"required"`
	FatherWhatsapp     string    `json:"father_whatsapp"`
	Email              string    `json:"email" validate:"required,email"`
	SiblingsDetails    string    `json:"siblings_details"`
	ClassToAdmitID     string    `json:"class_to_admit_id"`
	InterestedBranchID string    `json:"interested_branch_id"`
	CompletedClasses   string    `json:"completed_classes"`
	PreviousMadrasa    string    `json:"previous_madrasa"`
	TCNumber           string    `json:"tc_number"`
}

func (nr *NewRegistration) Validate() error {
	nr.StudentName = core.CleanString(nr.StudentName)
	nr.FatherName = core.CleanString(nr.FatherName)
	nr.MotherName = core.CleanString(nr.MotherName)
	nr.ParentMobile = core.CleanString(nr.ParentMobile)
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	return core.Validate.Struct(nr)
}

// Approval carries reviewer overrides for the class/branch/division to admit
// into; blank fields fall back to the applicant's preference.
type Approval struct {
	BranchID   string `json:"branch_id"`
	ClassID    string `json:"class_id"`
	DivisionID string `json:"division_id"`
}

type Rejection struct {
	Reason string `json:"reason" validate:"required"`
}

func (r *Rejection) Validate() error {
	r.Reason = core.CleanString(r.Reason)
	return core.Validate.Struct(r)
}

type InfoRequest struct {
	Message string `json:"message" validate:"required"`
}

func (ir *InfoRequest) Validate() error {
	ir.Message = core.CleanString(ir.Message)
	return core.Validate.Struct(ir)
}

// QueryFilter narrows registration list queries. Search matches student name,
// parent mobile or email.
type QueryFilter struct {
	core.ListQuery
	Status   string `query:"status"`
	BranchID string `query:"branch"`
}

func (qf *QueryFilter) Clean() {
	qf.ListQuery.Clean()
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
	qf.BranchID = core.CleanString(qf.BranchID)
}
