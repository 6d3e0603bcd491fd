package registration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
	emailsvc "github.com/kicentre/madrasa/services/email"
	inmemdb "github.com/kicentre/madrasa/storage/database/inmem"
)

type fixture struct {
	svc      *registration.Service
	students *student.Service
	branch   catalog.Branch
	class    catalog.Class
	reviewer user.User
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := inmemdb.NewDB()
	catalogSvc := catalog.NewService(inmemdb.NewCatalogRepository(db))

	branch, err := catalogSvc.CreateBranch(catalog.NewBranch{Name: "Wakra", Code: "WAKR"})
	require.NoError(t, err)
	class, err := catalogSvc.CreateClass(catalog.NewClass{Name: "Class 1", Level: 1})
	require.NoError(t, err)
	_, err = catalogSvc.CreateAcademicYear(catalog.NewAcademicYear{
		Name:      "2025-2026",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})
	require.NoError(t, err)

	studentSvc := student.NewService(inmemdb.NewStudentRepository(db), catalogSvc)
	svc := registration.NewService(
		inmemdb.NewRegistrationRepository(db),
		studentSvc,
		emailsvc.NewConsoleServiceMock(),
	)
	return fixture{
		svc:      svc,
		students: studentSvc,
		branch:   branch,
		class:    class,
		reviewer: user.User{ID: "admin-1", Name: "Admin"},
	}
}

func submit(t *testing.T, f fixture) registration.Registration {
	t.Helper()
	reg, err := f.svc.Submit(registration.NewRegistration{
		AdmissionType:      "NEW",
		StudentName:        "Ali Hassan",
		Gender:             "Male",
		DOB:                time.Date(2015, 3, 10, 0, 0, 0, 0, time.UTC),
		StudyType:          student.CategoryPermanent,
		IDCardType:         "QID",
		IDCardNumber:       "29912345678",
		FatherName:         "Hassan",
		MotherName:         "Amina",
		ParentMobile:       "55501234",
		Email:              "hassan@test.test",
		ClassToAdmitID:     f.class.ID,
		InterestedBranchID: f.branch.ID,
	})
	require.NoError(t, err)
	return reg
}

func TestSubmitStartsPending(t *testing.T) {
	f := setup(t)
	reg := submit(t, f)

	assert.Equal(t, registration.StatusPending, reg.Status)
	assert.True(t, reg.Reviewable())
	assert.False(t, reg.SubmittedAt.IsZero())
}

func TestApproveCreatesStudentAndEnrollment(t *testing.T) {
	f := setup(t)
	reg := submit(t, f)

	st, err := f.svc.Approve(reg.ID, f.reviewer, registration.Approval{})
	require.NoError(t, err)

	assert.Equal(t, "WAKR0001", st.AdmissionNumber)
	assert.Equal(t, reg.StudentName, st.Name)
	assert.Equal(t, reg.ID, st.RegistrationID)
	require.NotNil(t, st.CurrentEnrollment)
	assert.Equal(t, f.class.ID, st.CurrentEnrollment.ClassID)

	reviewed, err := f.svc.GetByID(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, reviewed.Status)
	assert.Equal(t, f.reviewer.ID, reviewed.ReviewedByID)
	require.NotNil(t, reviewed.ReviewedAt)
}

func TestApproveHonorsReviewerOverrides(t *testing.T) {
	f := setup(t)
	reg := submit(t, f)

	st, err := f.svc.Approve(reg.ID, f.reviewer, registration.Approval{
		BranchID: f.branch.ID,
		ClassID:  f.class.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.branch.ID, st.BranchID)
}

func TestOnlyReviewableSubmissionsCanBeReviewed(t *testing.T) {
	f := setup(t)
	reg := submit(t, f)

	_, err := f.svc.Reject(reg.ID, f.reviewer, registration.Rejection{Reason: "incomplete"})
	require.NoError(t, err)

	// a decided submission cannot be reviewed again
	_, err = f.svc.Approve(reg.ID, f.reviewer, registration.Approval{})
	assert.Error(t, err)
	_, err = f.svc.Reject(reg.ID, f.reviewer, registration.Rejection{Reason: "again"})
	assert.Error(t, err)
}

func TestRequestInfoKeepsSubmissionReviewable(t *testing.T) {
	f := setup(t)
	reg := submit(t, f)

	updated, err := f.svc.RequestInfo(reg.ID, f.reviewer, registration.InfoRequest{Message: "need the QID copy"})
	require.NoError(t, err)
	assert.Equal(t, registration.StatusInfoRequested, updated.Status)
	assert.True(t, updated.Reviewable())

	// an info-requested submission can still be approved
	st, err := f.svc.Approve(reg.ID, f.reviewer, registration.Approval{})
	require.NoError(t, err)
	assert.NotEmpty(t, st.AdmissionNumber)
}

func TestCountByStatus(t *testing.T) {
	f := setup(t)
	first := submit(t, f)
	submit(t, f)

	_, err := f.svc.Reject(first.ID, f.reviewer, registration.Rejection{Reason: "duplicate"})
	require.NoError(t, err)

	counts, err := f.svc.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[registration.StatusPending])
	assert.Equal(t, 1, counts[registration.StatusRejected])
}
