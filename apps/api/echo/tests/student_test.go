package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
)

func createStudent(t *testing.T, name, branchID, classID string) student.Student {
	t.Helper()
	st, err := studentSvc.Create(student.NewStudent{
		Name:         name,
		Gender:       "Male",
		DOB:          time.Date(2015, 3, 10, 0, 0, 0, 0, time.UTC),
		Category:     student.CategoryPermanent,
		BranchID:     branchID,
		ClassID:      classID,
		FatherName:   "Hassan",
		ParentMobile: "55501234",
	})
	if err != nil {
		t.Fatalf("createStudent(): %v", err)
	}
	return st
}

func TestStudentListContract(t *testing.T) {
	db.Reset()
	branch, class, _ := seedCatalog(t)
	admin := createUser(t, "admin", user.AllRoles)
	token := getToken(t, admin)

	for _, name := range []string{"Ali Hassan", "Omar Hassan", "Bilal Yusuf"} {
		createStudent(t, name, branch.ID, class.ID)
	}
	graduated := createStudent(t, "Zaid Farooq", branch.ID, class.ID)
	if _, err := studentSvc.Update(graduated.ID, student.UpdateStudent{Status: student.StatusGraduated}); err != nil {
		t.Fatalf("graduating student: %v", err)
	}

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "all", query: "", wantCount: 4},
		{name: "status filter", query: "?status=GRADUATED", wantCount: 1},
		{name: "search by name", query: "?search=hassan", wantCount: 2},
		{name: "search by admission number", query: "?search=WAKR0003", wantCount: 1},
		{name: "paging", query: "?page=2&page_size=3", wantCount: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/students"+tt.query, token)
			app.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			envelope := decodeList(t, rec)
			assert.Equal(t, tt.wantCount, envelope.Count)
		})
	}
}

func TestStudentCreateRequiresAdmin(t *testing.T) {
	db.Reset()
	branch, class, _ := seedCatalog(t)
	teacher := createUser(t, "teacher", []string{user.RoleTeacher})

	body := marshallObj(t, student.NewStudent{
		Name:         "Ali Hassan",
		Gender:       "Male",
		DOB:          time.Date(2015, 3, 10, 0, 0, 0, 0, time.UTC),
		Category:     student.CategoryPermanent,
		BranchID:     branch.ID,
		ClassID:      class.ID,
		FatherName:   "Hassan",
		ParentMobile: "55501234",
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/students", getToken(t, teacher), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := createUser(t, "admin", user.AllRoles)
	req, rec = newAuthRequest(http.MethodPost, "/v1/students", getToken(t, admin), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created student.Student
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "WAKR0001", created.AdmissionNumber)
}

func TestRegistrationReviewFlow(t *testing.T) {
	db.Reset()
	branch, class, _ := seedCatalog(t)
	admin := createUser(t, "admin", user.AllRoles)
	token := getToken(t, admin)

	// public submission needs no token
	submission := marshallObj(t, registration.NewRegistration{
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
		ClassToAdmitID:     class.ID,
		InterestedBranchID: branch.ID,
	})
	req, rec := newRequest(http.MethodPost, "/v1/registrations", submission)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var reg registration.Registration
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.Equal(t, registration.StatusPending, reg.Status)

	// applicants can check on their submission without a token
	req, rec = newRequest(http.MethodGet, fmt.Sprintf("/v1/registrations/%s/status", reg.ID))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var status map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, registration.StatusPending, status["status"])

	req, rec = newRequest(http.MethodGet, "/v1/registrations/nope/status")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the queue is admin-only
	req, rec = newRequest(http.MethodGet, "/v1/registrations")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/registrations?status=PENDING", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeList(t, rec).Count)

	// approving creates the student
	path := fmt.Sprintf("/v1/registrations/%s/approve", reg.ID)
	req, rec = newAuthRequest(http.MethodPost, path, token, marshallObj(t, registration.Approval{}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var st student.Student
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "WAKR0001", st.AdmissionNumber)

	// a decided submission cannot be approved twice
	req, rec = newAuthRequest(http.MethodPost, path, token, marshallObj(t, registration.Approval{}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceSummaryValidatesDate(t *testing.T) {
	db.Reset()
	seedCatalog(t)
	teacher := createUser(t, "teacher", []string{user.RoleTeacher})
	token := getToken(t, teacher)

	req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/summary?date=yesterday", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/summary?date=2026-08-31", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboardStats(t *testing.T) {
	db.Reset()
	branch, class, _ := seedCatalog(t)
	teacher := createUser(t, "teacher", []string{user.RoleTeacher})
	createStudent(t, "Ali Hassan", branch.ID, class.ID)

	req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard/stats", getToken(t, teacher))
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Contains(t, stats, "students")
	assert.Contains(t, stats, "registrations")
}
