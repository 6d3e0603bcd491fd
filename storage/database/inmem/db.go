// Package inmemdb provides mutex-guarded in-memory repositories satisfying
// the core repository interfaces; used by tests and local development.
package inmemdb

import (
	"sync"

	"github.com/kicentre/madrasa/core/attendance"
	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/core/staff"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
)

type DB struct {
	mu sync.RWMutex

	users         map[string]*user.User
	branches      map[string]*catalog.Branch
	classes       map[string]*catalog.Class
	divisions     map[string]*catalog.Division
	years         map[string]*catalog.AcademicYear
	students      map[string]*student.Student
	enrollments   map[string]*student.Enrollment
	registrations map[string]*registration.Registration
	staff         map[string]*staff.Staff
	leaves        map[string]*staff.LeaveRequest
	structures    map[string]*fee.Structure
	collections   map[string]*fee.Collection
	attendance    map[string]*attendance.Record // keyed by studentID+"|"+date
}

func NewDB() *DB {
	return &DB{
		users:         make(map[string]*user.User),
		branches:      make(map[string]*catalog.Branch),
		classes:       make(map[string]*catalog.Class),
		divisions:     make(map[string]*catalog.Division),
		years:         make(map[string]*catalog.AcademicYear),
		students:      make(map[string]*student.Student),
		enrollments:   make(map[string]*student.Enrollment),
		registrations: make(map[string]*registration.Registration),
		staff:         make(map[string]*staff.Staff),
		leaves:        make(map[string]*staff.LeaveRequest),
		structures:    make(map[string]*fee.Structure),
		collections:   make(map[string]*fee.Collection),
		attendance:    make(map[string]*attendance.Record),
	}
}

// Reset empties every table; tests call this between cases.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = make(map[string]*user.User)
	db.branches = make(map[string]*catalog.Branch)
	db.classes = make(map[string]*catalog.Class)
	db.divisions = make(map[string]*catalog.Division)
	db.years = make(map[string]*catalog.AcademicYear)
	db.students = make(map[string]*student.Student)
	db.enrollments = make(map[string]*student.Enrollment)
	db.registrations = make(map[string]*registration.Registration)
	db.staff = make(map[string]*staff.Staff)
	db.leaves = make(map[string]*staff.LeaveRequest)
	db.structures = make(map[string]*fee.Structure)
	db.collections = make(map[string]*fee.Collection)
	db.attendance = make(map[string]*attendance.Record)
}
