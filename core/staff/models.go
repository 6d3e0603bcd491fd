package staff

import (
	"strings"
	"time"

	"github.com/kicentre/madrasa/core"
)

// Staff statuses
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusResigned = "RESIGNED"
)

// Designations
const (
	DesignationTeacher     = "TEACHER"
	DesignationHeadTeacher = "HEAD_TEACHER"
	DesignationChief       = "CHIEF_HEAD_TEACHER"
	DesignationOffice      = "OFFICE_STAFF"
)

// Leave request statuses
const (
	LeavePending  = "PENDING"
	LeaveApproved = "APPROVED"
	LeaveRejected = "REJECTED"
)

// Staff is a staff member profile, optionally linked to a login account.
type Staff struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Name        string    `json:"name"`
	Designation string    `json:"designation"`
	BranchID    string    `json:"branch_id"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
	JoinedAt    time.Time `json:"joined_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LeaveRequest is a staff leave application.
type LeaveRequest struct {
	ID           string     `json:"id"`
	StaffID      string     `json:"staff_id"`
	FromDate     time.Time  `json:"from_date"`
	ToDate       time.Time  `json:"to_date"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	ReviewedByID string     `json:"reviewed_by_id,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type NewStaff struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name" validate:"required"`
	Designation string    `json:"designation" validate:"required,oneof=TEACHER HEAD_TEACHER CHIEF_HEAD_TEACHER OFFICE_STAFF"`
	BranchID    string    `json:"branch_id" validate:"required"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email" validate:"omitempty,email"`
	JoinedAt    time.Time `json:"joined_at"`
}

func (ns *NewStaff) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.Validate.Struct(ns)
}

type UpdateStaff struct {
	Name        string `json:"name"`
	Designation string `json:"designation" validate:"omitempty,oneof=TEACHER HEAD_TEACHER CHIEF_HEAD_TEACHER OFFICE_STAFF"`
	BranchID    string `json:"branch_id"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Status      string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE RESIGNED"`
}

func (us *UpdateStaff) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	return core.Validate.Struct(us)
}

type NewLeaveRequest struct {
	StaffID  string    `json:"staff_id" validate:"required"`
	FromDate time.Time `json:"from_date" validate:"required"`
	ToDate   time.Time `json:"to_date" validate:"required,gtefield=FromDate"`
	Reason   string    `json:"reason" validate:"required"`
}

func (nl *NewLeaveRequest) Validate() error {
	nl.Reason = core.CleanString(nl.Reason)
	return core.Validate.Struct(nl)
}

// QueryFilter narrows staff list queries. Search matches name, phone or
// email.
type QueryFilter struct {
	core.ListQuery
	Status      string `query:"status"`
	Designation string `query:"designation"`
	BranchID    string `query:"branch"`
}

func (qf *QueryFilter) Clean() {
	qf.ListQuery.Clean()
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
	qf.Designation = strings.ToUpper(core.CleanString(qf.Designation))
	qf.BranchID = core.CleanString(qf.BranchID)
}

// LeaveQueryFilter narrows leave request list queries.
type LeaveQueryFilter struct {
	core.ListQuery
	StaffID string `query:"staff"`
	Status  string `query:"status"`
}

func (qf *LeaveQueryFilter) Clean() {
	qf.ListQuery.Clean()
	qf.StaffID = core.CleanString(qf.StaffID)
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
}
