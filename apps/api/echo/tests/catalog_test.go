package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/user"
)

func TestCatalogEndpoints(t *testing.T) {
	db.Reset()
	admin := createUser(t, "admin", user.AllRoles)
	teacher := createUser(t, "teacher", []string{user.RoleTeacher})
	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)

	req, rec := newRequest(http.MethodGet, "/v1/catalog/branches")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// settings management is admin-only, reading is open to staff
	branchBody := marshallObj(t, catalog.NewBranch{Name: "Najma", Code: "najm"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/catalog/branches", teacherToken, branchBody)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/catalog/branches", adminToken, branchBody)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var branch catalog.Branch
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &branch))
	assert.True(t, branch.IsActive)

	req, rec = newAuthRequest(http.MethodGet, "/v1/catalog/branches", teacherToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var branches []catalog.Branch
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &branches))
	assert.Len(t, branches, 1)

	req, rec = newAuthRequest(http.MethodPost, "/v1/catalog/classes", adminToken,
		marshallObj(t, catalog.NewClass{Name: "Class 1", Level: 1}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var class catalog.Class
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &class))

	req, rec = newAuthRequest(http.MethodGet, "/v1/catalog/classes", teacherToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var classes []catalog.Class
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classes))
	assert.Len(t, classes, 1)

	req, rec = newAuthRequest(http.MethodPost, "/v1/catalog/divisions", adminToken,
		marshallObj(t, catalog.NewDivision{Name: "A", ClassID: class.ID, BranchID: branch.ID}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/catalog/divisions?class="+class.ID, teacherToken)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var divisions []catalog.Division
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &divisions))
	assert.Len(t, divisions, 1)
}

func TestActiveAcademicYear(t *testing.T) {
	db.Reset()
	admin := createUser(t, "admin", user.AllRoles)
	token := getToken(t, admin)

	newYear := func(name string, active bool) []byte {
		return marshallObj(t, catalog.NewAcademicYear{
			Name:      name,
			StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
			IsActive:  active,
		})
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/catalog/academic-years", token, newYear("2024-2025", false))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// no active year yet
	req, rec = newAuthRequest(http.MethodGet, "/v1/catalog/academic-years/active", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/catalog/academic-years", token, newYear("2025-2026", true))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/catalog/academic-years/active", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var active catalog.AcademicYear
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Equal(t, "2025-2026", active.Name)

	req, rec = newAuthRequest(http.MethodGet, "/v1/catalog/academic-years", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var years []catalog.AcademicYear
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &years))
	assert.Len(t, years, 2)
}
