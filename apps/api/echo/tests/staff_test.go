package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kicentre/madrasa/core/staff"
	"github.com/kicentre/madrasa/core/user"
)

func createStaff(t *testing.T, name, designation, branchID string) staff.Staff {
	t.Helper()
	st, err := staffSvc.Create(staff.NewStaff{
		Name:        name,
		Designation: designation,
		BranchID:    branchID,
		Phone:       "55509876",
	})
	if err != nil {
		t.Fatalf("createStaff(): %v", err)
	}
	return st
}

func TestStaffListContract(t *testing.T) {
	db.Reset()
	branch, _, _ := seedCatalog(t)
	admin := createUser(t, "admin", user.AllRoles)
	teacher := createUser(t, "teacher", []string{user.RoleTeacher})
	token := getToken(t, teacher)

	createStaff(t, "Aisha Rahman", staff.DesignationTeacher, branch.ID)
	createStaff(t, "Bilal Khan", staff.DesignationOffice, branch.ID)
	createStaff(t, "Chand Begum", staff.DesignationTeacher, branch.ID)

	req, rec := newRequest(http.MethodGet, "/v1/staff")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// creating staff is admin-only
	body := marshallObj(t, staff.NewStaff{Name: "Dawood", Designation: staff.DesignationOffice, BranchID: branch.ID})
	req, rec = newAuthRequest(http.MethodPost, "/v1/staff", token, body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/staff", getToken(t, admin), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name      string
		path      string
		wantCount int
		wantLen   int
	}{
		{name: "all", path: "/v1/staff", wantCount: 4, wantLen: 4},
		{name: "by designation", path: "/v1/staff?designation=TEACHER", wantCount: 2, wantLen: 2},
		{name: "search", path: "/v1/staff?search=bilal", wantCount: 1, wantLen: 1},
		{name: "paging", path: "/v1/staff?page=2&page_size=3", wantCount: 4, wantLen: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, token)
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			envelope := decodeList(t, rec)
			assert.Equal(t, tt.wantCount, envelope.Count)
			assert.Len(t, envelope.Results, tt.wantLen)
		})
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/staff?sort_by=name&sort_order=asc", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeList(t, rec)
	assert.Equal(t, "Aisha Rahman", envelope.Results[0]["name"])
}

func TestLeaveRequestFlow(t *testing.T) {
	db.Reset()
	branch, _, _ := seedCatalog(t)
	admin := createUser(t, "admin", user.AllRoles)
	teacher := createUser(t, "teacher", []string{user.RoleTeacher})
	adminToken := getToken(t, admin)
	member := createStaff(t, "Aisha Rahman", staff.DesignationTeacher, branch.ID)

	body := marshallObj(t, staff.NewLeaveRequest{
		StaffID:  member.ID,
		FromDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
		Reason:   "family event",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/leave-requests", getToken(t, teacher), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var lr staff.LeaveRequest
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lr))
	assert.Equal(t, staff.LeavePending, lr.Status)

	req, rec = newAuthRequest(http.MethodGet, "/v1/leave-requests?status=PENDING", adminToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeList(t, rec).Count)

	// review is admin-only
	path := fmt.Sprintf("/v1/leave-requests/%s/approve", lr.ID)
	req, rec = newAuthRequest(http.MethodPost, path, getToken(t, teacher))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, path, adminToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var reviewed staff.LeaveRequest
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviewed))
	assert.Equal(t, staff.LeaveApproved, reviewed.Status)
	assert.Equal(t, admin.ID, reviewed.ReviewedByID)

	// a decided request cannot be reviewed again
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/leave-requests/%s/reject", lr.ID), adminToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
