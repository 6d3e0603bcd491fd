package fee_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
	inmemdb "github.com/kicentre/madrasa/storage/database/inmem"
)

type fixture struct {
	svc       *fee.Service
	st        student.Student
	class     catalog.Class
	year      catalog.AcademicYear
	collector user.User
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := inmemdb.NewDB()
	catalogSvc := catalog.NewService(inmemdb.NewCatalogRepository(db))

	branch, err := catalogSvc.CreateBranch(catalog.NewBranch{Name: "Wakra", Code: "WAKR"})
	require.NoError(t, err)
	class, err := catalogSvc.CreateClass(catalog.NewClass{Name: "Class 1", Level: 1})
	require.NoError(t, err)
	year, err := catalogSvc.CreateAcademicYear(catalog.NewAcademicYear{
		Name:      "2025-2026",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})
	require.NoError(t, err)

	studentSvc := student.NewService(inmemdb.NewStudentRepository(db), catalogSvc)
	st, err := studentSvc.Create(student.NewStudent{
		Name:         "Ali Hassan",
		Gender:       "Male",
		DOB:          time.Date(2015, 3, 10, 0, 0, 0, 0, time.UTC),
		Category:     student.CategoryPermanent,
		BranchID:     branch.ID,
		ClassID:      class.ID,
		FatherName:   "Hassan",
		ParentMobile: "55501234",
	})
	require.NoError(t, err)

	return fixture{
		svc:       fee.NewService(inmemdb.NewFeeRepository(db), studentSvc, catalogSvc),
		st:        st,
		class:     class,
		year:      year,
		collector: user.User{ID: "cashier-1", Name: "Cashier"},
	}
}

func collect(t *testing.T, f fixture, amount int64) fee.Collection {
	t.Helper()
	c, err := f.svc.Collect(fee.NewCollection{
		StudentID:     f.st.ID,
		PaymentMethod: fee.MethodCash,
		Amount:        amount,
	}, f.collector)
	require.NoError(t, err)
	return c
}

func TestCollectAssignsMonthlyReceiptNumbers(t *testing.T) {
	f := setup(t)

	first := collect(t, f, 100)
	second := collect(t, f, 200)

	now := time.Now().UTC()
	prefix := fmt.Sprintf("%s-%04d-%02d-", core.Conf.OrgCode, now.Year(), int(now.Month()))
	assert.Equal(t, prefix+"0001", first.ReceiptNumber)
	assert.Equal(t, prefix+"0002", second.ReceiptNumber)
	assert.Equal(t, fee.StatusPending, first.Status)
	assert.Equal(t, f.year.ID, first.AcademicYearID) // active year by default
}

func TestReviewWorkflow(t *testing.T) {
	f := setup(t)
	c := collect(t, f, 100)

	approved, err := f.svc.Approve(c.ID, f.collector)
	require.NoError(t, err)
	assert.Equal(t, fee.StatusApproved, approved.Status)
	assert.Equal(t, f.collector.ID, approved.ApprovedByID)
	require.NotNil(t, approved.ApprovedAt)

	// a decided collection cannot be reviewed again
	_, err = f.svc.Cancel(c.ID, f.collector)
	assert.Error(t, err)
}

func TestStudentBalanceCountsOnlyApprovedPayments(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateStructure(fee.NewStructure{
		AcademicYearID: f.year.ID,
		ClassID:        f.class.ID,
		Name:           "Annual Tuition",
		Amount:         1000,
	})
	require.NoError(t, err)

	approved := collect(t, f, 300)
	_, err = f.svc.Approve(approved.ID, f.collector)
	require.NoError(t, err)

	collect(t, f, 500) // pending, does not count

	cancelled := collect(t, f, 200)
	_, err = f.svc.Cancel(cancelled.ID, f.collector)
	require.NoError(t, err)

	balance, err := f.svc.StudentBalance(f.st.ID, f.year.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance.Assessed)
	assert.Equal(t, int64(300), balance.Paid)
	assert.Equal(t, int64(700), balance.Outstanding)
}

func TestCollectedSince(t *testing.T) {
	f := setup(t)

	c := collect(t, f, 450)
	_, err := f.svc.Approve(c.ID, f.collector)
	require.NoError(t, err)

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)
	total, err := f.svc.CollectedSince(monthStart)
	require.NoError(t, err)
	assert.Equal(t, int64(450), total)

	future, err := f.svc.CollectedSince(time.Now().UTC().Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Zero(t, future)
}

func TestCollectRejectsUnknownStudent(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Collect(fee.NewCollection{
		StudentID:     "nope",
		PaymentMethod: fee.MethodCash,
		Amount:        100,
	}, f.collector)
	assert.Error(t, err)
}
