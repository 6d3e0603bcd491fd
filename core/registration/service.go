package registration

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
)

var (
	ErrNotFound      = errors.New("registration not found")
	ErrNotReviewable = errors.New("registration has already been reviewed")
)

const (
	receivedTemplate      = "registration-received"
	approvedTemplate      = "registration-approved"
	rejectedTemplate      = "registration-rejected"
	infoRequestedTemplate = "registration-info-requested"
)

func init() {
	core.RegisterEmailTemplate(receivedTemplate, `Dear {{.Data.FatherName}},

We received the registration of {{.Data.StudentName}} at {{.AppName}}.
Your reference number is {{.Data.ID}}. You can check the status at:

{{.FrontendBaseURL}}/register/student?ref={{.Data.ID}}

Jazakallah khair.
`)
	core.RegisterEmailTemplate(approvedTemplate, `Dear {{.Data.FatherName}},

The registration of {{.Data.StudentName}} has been APPROVED.
Admission number: {{.Data.AdmissionNumber}}

Please contact the office for the joining formalities.
`)
	core.RegisterEmailTemplate(rejectedTemplate, `Dear {{.Data.FatherName}},

We are sorry to inform you that the registration of {{.Data.StudentName}}
could not be accepted.

Reason: {{.Data.Reason}}
`)
	core.RegisterEmailTemplate(infoRequestedTemplate, `Dear {{.Data.FatherName}},

We need more information to process the registration of {{.Data.StudentName}}:

{{.Data.Message}}

Please reply to this email or update your submission at:
{{.FrontendBaseURL}}/register/student?ref={{.Data.ID}}
`)
}

type (
	Repository interface {
		CreateRegistration(reg Registration) (Registration, error)
		GetRegistrationByID(id string) (Registration, error)
		// FilterRegistrations returns the requested page and total match count.
		FilterRegistrations(filter QueryFilter) ([]Registration, int, error)
		UpdateRegistration(reg Registration) (Registration, error)
		CountByStatus() (map[string]int, error)
	}

	Service struct {
		repo       Repository
		studentSvc *student.Service
		mailSvc    core.EmailService
	}
)

func NewService(repo Repository, studentSvc *student.Service, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, studentSvc: studentSvc, mailSvc: mailSvc}
}

// Submit records a public registration form submission and acknowledges it by
// email.
func (svc *Service) Submit(nr NewRegistration) (Registration, error) {
	now := time.Now().UTC()
	reg, err := svc.repo.CreateRegistration(Registration{
		ID:                 uuid.NewString(),
		SubmittedAt:        now,
		AdmissionType:      nr.AdmissionType,
		StudentName:        nr.StudentName,
		Gender:             nr.Gender,
		DOB:                nr.DOB,
		StudyType:          nr.StudyType,
		IDCardType:         nr.IDCardType,
		IDCardNumber:       nr.IDCardNumber,
		FatherName:         nr.FatherName,
		MotherName:         nr.MotherName,
		ParentMobile:       nr.ParentMobile,
		FatherWhatsapp:     nr.FatherWhatsapp,
		Email:              nr.Email,
		SiblingsDetails:    nr.SiblingsDetails,
		ClassToAdmitID:     nr.ClassToAdmitID,
		InterestedBranchID: nr.InterestedBranchID,
		CompletedClasses:   nr.CompletedClasses,
		PreviousMadrasa:    nr.PreviousMadrasa,
		TCNumber:           nr.TCNumber,
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return Registration{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: reg.FatherName, Address: reg.Email}},
		Subject:      "Registration Received",
		TemplateName: receivedTemplate,
		TemplateData: reg,
	})
	return reg, nil
}

func (svc *Service) GetByID(id string) (Registration, error) {
	return svc.repo.GetRegistrationByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Registration, int, error) {
	filter.Clean()
	return svc.repo.FilterRegistrations(filter)
}

// Approve converts a reviewable submission into an active student, records
// the reviewer and notifies the applicant.
func (svc *Service) Approve(id string, reviewer user.User, ap Approval) (student.Student, error) {
	reg, err := svc.repo.GetRegistrationByID(id)
	if err != nil {
		return student.Student{}, err
	}
	if !reg.Reviewable() {
		return student.Student{}, core.NewValidationError(ErrNotReviewable)
	}

	branchID := ap.BranchID
	if branchID == "" {
		branchID = reg.InterestedBranchID
	}
	classID := ap.ClassID
	if classID == "" {
		classID = reg.ClassToAdmitID
	}

	ns := student.NewStudent{
		Name:           reg.StudentName,
		Gender:         reg.Gender,
		DOB:            reg.DOB,
		Category:       reg.StudyType,
		BranchID:       branchID,
		ClassID:        classID,
		DivisionID:     ap.DivisionID,
		IDCardType:     reg.IDCardType,
		IDCardNumber:   reg.IDCardNumber,
		FatherName:     reg.FatherName,
		MotherName:     reg.MotherName,
		ParentMobile:   reg.ParentMobile,
		Email:          reg.Email,
		HasSiblings:    reg.SiblingsDetails != "",
		RegistrationID: reg.ID,
	}
	if err = ns.Validate(); err != nil {
		return student.Student{}, err
	}
	st, err := svc.studentSvc.Create(ns)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "creating student from registration")
	}

	now := time.Now().UTC()
	reg.Status = StatusApproved
	reg.ReviewedByID = reviewer.ID
	reg.ReviewedAt = &now
	reg.UpdatedAt = now
	if _, err = svc.repo.UpdateRegistration(reg); err != nil {
		return student.Student{}, errors.Wrap(err, "marking registration approved")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: reg.FatherName, Address: reg.Email}},
		Subject:      "Registration Approved",
		TemplateName: approvedTemplate,
		TemplateData: struct {
			FatherName, StudentName, AdmissionNumber string
		}{reg.FatherName, reg.StudentName, st.AdmissionNumber},
	})
	return st, nil
}

// Reject declines a reviewable submission with a reason and notifies the
// applicant.
func (svc *Service) Reject(id string, reviewer user.User, rj Rejection) (Registration, error) {
	reg, err := svc.repo.GetRegistrationByID(id)
	if err != nil {
		return Registration{}, err
	}
	if !reg.Reviewable() {
		return Registration{}, core.NewValidationError(ErrNotReviewable)
	}

	now := time.Now().UTC()
	reg.Status = StatusRejected
	reg.RejectionReason = rj.Reason
	reg.ReviewedByID = reviewer.ID
	reg.ReviewedAt = &now
	reg.UpdatedAt = now
	reg, err = svc.repo.UpdateRegistration(reg)
	if err != nil {
		return Registration{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: reg.FatherName, Address: reg.Email}},
		Subject:      "Registration Update",
		TemplateName: rejectedTemplate,
		TemplateData: struct {
			FatherName, StudentName, Reason string
		}{reg.FatherName, reg.StudentName, rj.Reason},
	})
	return reg, nil
}

// RequestInfo asks the applicant for more information; the submission stays
// reviewable.
func (svc *Service) RequestInfo(id string, reviewer user.User, ir InfoRequest) (Registration, error) {
	reg, err := svc.repo.GetRegistrationByID(id)
	if err != nil {
		return Registration{}, err
	}
	if !reg.Reviewable() {
		return Registration{}, core.NewValidationError(ErrNotReviewable)
	}

	now := time.Now().UTC()
	reg.Status = StatusInfoRequested
	reg.InfoRequestMessage = ir.Message
	reg.ReviewedByID = reviewer.ID
	reg.ReviewedAt = &now
	reg.UpdatedAt = now
	reg, err = svc.repo.UpdateRegistration(reg)
	if err != nil {
		return Registration{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: reg.FatherName, Address: reg.Email}},
		Subject:      "More Information Needed",
		TemplateName: infoRequestedTemplate,
		TemplateData: struct {
			FatherName, StudentName, Message, ID string
		}{reg.FatherName, reg.StudentName, ir.Message, reg.ID},
	})
	return reg, nil
}

func (svc *Service) CountByStatus() (map[string]int, error) {
	return svc.repo.CountByStatus()
}
