package staff

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/user"
)

var (
	ErrNotFound          = errors.New("staff member not found")
	ErrLeaveNotFound     = errors.New("leave request not found")
	ErrLeaveNotReviewable = errors.New("leave request has already been reviewed")
)

type (
	Repository interface {
		CreateStaff(st Staff) (Staff, error)
		GetStaffByID(id string) (Staff, error)
		// FilterStaff returns the requested page and total match count.
		FilterStaff(filter QueryFilter) ([]Staff, int, error)
		UpdateStaff(st Staff) (Staff, error)
		DeleteStaffByID(id string) error
		CountActiveByDesignation() (map[string]int, error)

		CreateLeaveRequest(lr LeaveRequest) (LeaveRequest, error)
		GetLeaveRequestByID(id string) (LeaveRequest, error)
		FilterLeaveRequests(filter LeaveQueryFilter) ([]LeaveRequest, int, error)
		UpdateLeaveRequest(lr LeaveRequest) (LeaveRequest, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ns NewStaff) (Staff, error) {
	now := time.Now().UTC()
	joined := ns.JoinedAt
	if joined.IsZero() {
		joined = now
	}
	return svc.repo.CreateStaff(Staff{
		ID:          uuid.NewString(),
		UserID:      ns.UserID,
		Name:        ns.Name,
		Designation: ns.Designation,
		BranchID:    ns.BranchID,
		Phone:       ns.Phone,
		Email:       ns.Email,
		Status:      StatusActive,
		JoinedAt:    joined,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetByID(id string) (Staff, error) {
	return svc.repo.GetStaffByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Staff, int, error) {
	filter.Clean()
	return svc.repo.FilterStaff(filter)
}

func (svc *Service) Update(id string, us UpdateStaff) (Staff, error) {
	st, err := svc.repo.GetStaffByID(id)
	if err != nil {
		return Staff{}, err
	}
	if us.Name != "" {
		st.Name = us.Name
	}
	if us.Designation != "" {
		st.Designation = us.Designation
	}
	if us.BranchID != "" {
		st.BranchID = us.BranchID
	}
	if us.Phone != "" {
		st.Phone = us.Phone
	}
	if us.Email != "" {
		st.Email = us.Email
	}
	if us.Status != "" {
		st.Status = us.Status
	}
	st.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStaff(st)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteStaffByID(id)
}

func (svc *Service) CountActiveByDesignation() (map[string]int, error) {
	return svc.repo.CountActiveByDesignation()
}

// Leave requests

func (svc *Service) RequestLeave(nl NewLeaveRequest) (LeaveRequest, error) {
	if _, err := svc.repo.GetStaffByID(nl.StaffID); err != nil {
		return LeaveRequest{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateLeaveRequest(LeaveRequest{
		ID:        uuid.NewString(),
		StaffID:   nl.StaffID,
		FromDate:  nl.FromDate,
		ToDate:    nl.ToDate,
		Reason:    nl.Reason,
		Status:    LeavePending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) LeaveRequests(filter LeaveQueryFilter) ([]LeaveRequest, int, error) {
	filter.Clean()
	return svc.repo.FilterLeaveRequests(filter)
}

// ReviewLeave approves or rejects a pending leave request.
func (svc *Service) ReviewLeave(id string, reviewer user.User, approve bool) (LeaveRequest, error) {
	lr, err := svc.repo.GetLeaveRequestByID(id)
	if err != nil {
		return LeaveRequest{}, err
	}
	if lr.Status != LeavePending {
		return LeaveRequest{}, core.NewValidationError(ErrLeaveNotReviewable)
	}

	now := time.Now().UTC()
	if approve {
		lr.Status = LeaveApproved
	} else {
		lr.Status = LeaveRejected
	}
	lr.ReviewedByID = reviewer.ID
	lr.ReviewedAt = &now
	lr.UpdatedAt = now
	return svc.repo.UpdateLeaveRequest(lr)
}
