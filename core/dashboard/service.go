// Package dashboard aggregates headline statistics from the other domain
// services for the admin landing page.
package dashboard

import (
	"time"

	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core/attendance"
	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/core/staff"
	"github.com/kicentre/madrasa/core/student"
)

type (
	StudentStats struct {
		Total    int            `json:"total"`
		Active   int            `json:"active"`
		Inactive int            `json:"inactive"`
		ByBranch map[string]int `json:"by_branch"`
	}

	StaffStats struct {
		Total  int            `json:"total"`
		ByRole map[string]int `json:"by_role"`
	}

	RegistrationStats struct {
		Pending       int `json:"pending"`
		InfoRequested int `json:"info_requested"`
	}

	FeeStats struct {
		CollectedThisMonth int64 `json:"collected_this_month"`
	}

	AttendanceStats struct {
		Present int `json:"present"`
		Absent  int `json:"absent"`
		Total   int `json:"total"`
	}

	Stats struct {
		Students      StudentStats      `json:"students"`
		Staff         StaffStats        `json:"staff"`
		Registrations RegistrationStats `json:"registrations"`
		Fees          FeeStats          `json:"fees"`
		Attendance    AttendanceStats   `json:"attendance"`
	}

	Service struct {
		studentSvc      *student.Service
		staffSvc        *staff.Service
		registrationSvc *registration.Service
		feeSvc          *fee.Service
		attendanceSvc   *attendance.Service
	}
)

func NewService(
	studentSvc *student.Service,
	staffSvc *staff.Service,
	registrationSvc *registration.Service,
	feeSvc *fee.Service,
	attendanceSvc *attendance.Service,
) *Service {
	return &Service{
		studentSvc:      studentSvc,
		staffSvc:        staffSvc,
		registrationSvc: registrationSvc,
		feeSvc:          feeSvc,
		attendanceSvc:   attendanceSvc,
	}
}

// Stats collects today's headline numbers across all domains.
func (svc *Service) Stats() (Stats, error) {
	var stats Stats

	byStatus, err := svc.studentSvc.CountByStatus()
	if err != nil {
		return stats, errors.Wrap(err, "counting students by status")
	}
	for status, n := range byStatus {
		stats.Students.Total += n
		if status == student.StatusActive {
			stats.Students.Active += n
		} else {
			stats.Students.Inactive += n
		}
	}
	if stats.Students.ByBranch, err = svc.studentSvc.CountActiveByBranch(); err != nil {
		return stats, errors.Wrap(err, "counting students by branch")
	}

	byRole, err := svc.staffSvc.CountActiveByDesignation()
	if err != nil {
		return stats, errors.Wrap(err, "counting staff")
	}
	stats.Staff.ByRole = byRole
	for _, n := range byRole {
		stats.Staff.Total += n
	}

	regByStatus, err := svc.registrationSvc.CountByStatus()
	if err != nil {
		return stats, errors.Wrap(err, "counting registrations")
	}
	stats.Registrations.Pending = regByStatus[registration.StatusPending]
	stats.Registrations.InfoRequested = regByStatus[registration.StatusInfoRequested]

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if stats.Fees.CollectedThisMonth, err = svc.feeSvc.CollectedSince(monthStart); err != nil {
		return stats, errors.Wrap(err, "summing fee collections")
	}

	day, err := svc.attendanceSvc.SummarizeDay(now)
	if err != nil {
		return stats, errors.Wrap(err, "summarizing attendance")
	}
	stats.Attendance = AttendanceStats{Present: day.Present, Absent: day.Absent, Total: day.Total}

	return stats, nil
}
