package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/kicentre/madrasa/apps/api/echo"
	"github.com/kicentre/madrasa/core/attendance"
	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/dashboard"
	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/core/staff"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
	emailsvc "github.com/kicentre/madrasa/services/email"
	inmemdb "github.com/kicentre/madrasa/storage/database/inmem"
)

var (
	db  *inmemdb.DB
	app Server

	usrSvc     *user.Service
	catalogSvc *catalog.Service
	studentSvc *student.Service
	regSvc     *registration.Service
	staffSvc   *staff.Service
	feeSvc     *fee.Service
)

func TestMain(m *testing.M) {
	db = inmemdb.NewDB()
	mailSvc := emailsvc.NewConsoleServiceMock()

	usrSvc = user.NewService(inmemdb.NewUserRepository(db), mailSvc)
	catalogSvc = catalog.NewService(inmemdb.NewCatalogRepository(db))
	studentSvc = student.NewService(inmemdb.NewStudentRepository(db), catalogSvc)
	regSvc = registration.NewService(inmemdb.NewRegistrationRepository(db), studentSvc, mailSvc)
	staffSvc = staff.NewService(inmemdb.NewStaffRepository(db))
	feeSvc = fee.NewService(inmemdb.NewFeeRepository(db), studentSvc, catalogSvc)
	attendanceSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), studentSvc)
	dashboardSvc := dashboard.NewService(studentSvc, staffSvc, regSvc, feeSvc, attendanceSvc)

	app = NewServer(&Options{
		DisableReqLogs:  true,
		UserSvc:         usrSvc,
		CatalogSvc:      catalogSvc,
		StudentSvc:      studentSvc,
		RegistrationSvc: regSvc,
		StaffSvc:        staffSvc,
		FeeSvc:          feeSvc,
		AttendanceSvc:   attendanceSvc,
		DashboardSvc:    dashboardSvc,
	})

	os.Exit(m.Run())
}

// seedCatalog creates a branch, class and active year; call once per test
// after resetting the DB.
func seedCatalog(t *testing.T) (catalog.Branch, catalog.Class, catalog.AcademicYear) {
	t.Helper()
	branch, err := catalogSvc.CreateBranch(catalog.NewBranch{Name: "Wakra", Code: "WAKR"})
	if err != nil {
		t.Fatalf("seedCatalog(): %v", err)
	}
	class, err := catalogSvc.CreateClass(catalog.NewClass{Name: "Class 1", Level: 1})
	if err != nil {
		t.Fatalf("seedCatalog(): %v", err)
	}
	year, err := catalogSvc.CreateAcademicYear(catalog.NewAcademicYear{
		Name:      "2025-2026",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("seedCatalog(): %v", err)
	}
	return branch, class, year
}

func createUser(t *testing.T, username string, roles []string) user.User {
	t.Helper()
	usr, err := usrSvc.Create(user.NewUser{
		Name:            username,
		Username:        username,
		Email:           username + "@test.test",
		Password:        "Str0ngPassw0rd!",
		PasswordConfirm: "Str0ngPassw0rd!",
		Roles:           roles,
	})
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

type listEnvelope struct {
	Results []map[string]interface{} `json:"results"`
	Count   int                      `json:"count"`
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listEnvelope {
	t.Helper()
	var envelope listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decodeList(): %v; body = %s", err, rec.Body.String())
	}
	return envelope
}
