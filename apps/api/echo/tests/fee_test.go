package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/core/user"
)

func collectFee(t *testing.T, token, studentID string, amount int64, method string) fee.Collection {
	t.Helper()
	body := marshallObj(t, fee.NewCollection{
		StudentID:     studentID,
		Amount:        amount,
		PaymentMethod: method,
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/fees/collections", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("collectFee(): code = %d; body = %s", rec.Code, rec.Body.String())
	}
	var c fee.Collection
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("collectFee(): %v", err)
	}
	return c
}

func TestFeeCollectionListContract(t *testing.T) {
	db.Reset()
	branch, class, _ := seedCatalog(t)
	admin := createUser(t, "admin", user.AllRoles)
	token := getToken(t, admin)
	st := createStudent(t, "Ali Hassan", branch.ID, class.ID)

	req, rec := newRequest(http.MethodGet, "/v1/fees/collections")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	first := collectFee(t, token, st.ID, 100, fee.MethodCash)
	collectFee(t, token, st.ID, 200, fee.MethodCard)
	collectFee(t, token, st.ID, 300, fee.MethodCash)

	tests := []struct {
		name      string
		path      string
		wantCount int
		wantLen   int
	}{
		{name: "all", path: "/v1/fees/collections", wantCount: 3, wantLen: 3},
		{name: "by method", path: "/v1/fees/collections?method=CASH", wantCount: 2, wantLen: 2},
		{name: "by status", path: "/v1/fees/collections?status=PENDING", wantCount: 3, wantLen: 3},
		{name: "search by receipt", path: "/v1/fees/collections?search=" + first.ReceiptNumber, wantCount: 1, wantLen: 1},
		{name: "paging", path: "/v1/fees/collections?page=2&page_size=2", wantCount: 3, wantLen: 1},
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

	// sorting by amount
	req, rec = newAuthRequest(http.MethodGet, "/v1/fees/collections?sort_by=amount&sort_order=desc", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeList(t, rec)
	assert.Equal(t, float64(300), envelope.Results[0]["amount"])
}

func TestFeeCollectionReviewEndpoints(t *testing.T) {
	db.Reset()
	branch, class, _ := seedCatalog(t)
	admin := createUser(t, "admin", user.AllRoles)
	teacher := createUser(t, "teacher", []string{user.RoleTeacher})
	adminToken := getToken(t, admin)
	st := createStudent(t, "Ali Hassan", branch.ID, class.ID)

	c := collectFee(t, adminToken, st.ID, 500, fee.MethodCash)
	path := fmt.Sprintf("/v1/fees/collections/%s/approve", c.ID)

	// approval is admin-only
	req, rec := newAuthRequest(http.MethodPost, path, getToken(t, teacher))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, path, adminToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var approved fee.Collection
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approved))
	assert.Equal(t, fee.StatusApproved, approved.Status)
	assert.Equal(t, admin.ID, approved.ApprovedByID)

	// a decided collection cannot be reviewed again
	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/fees/collections/%s/cancel", c.ID), adminToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/fees/collections/nope/approve", adminToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeeStructureEndpoints(t *testing.T) {
	db.Reset()
	_, class, year := seedCatalog(t)
	admin := createUser(t, "admin", user.AllRoles)
	teacher := createUser(t, "teacher", []string{user.RoleTeacher})

	body := marshallObj(t, fee.NewStructure{
		AcademicYearID: year.ID,
		ClassID:        class.ID,
		Name:           "Annual Tuition",
		Amount:         1000,
	})

	// creating structures is admin-only
	req, rec := newAuthRequest(http.MethodPost, "/v1/fees/structures", getToken(t, teacher), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/fees/structures", getToken(t, admin), body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/fees/structures?academic_year="+year.ID, getToken(t, teacher))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var structures []fee.Structure
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &structures))
	assert.Len(t, structures, 1)
	assert.Equal(t, "Annual Tuition", structures[0].Name)
}
