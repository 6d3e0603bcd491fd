package inmemdb

import (
	"sort"
	"strings"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	st.CurrentEnrollment = nil
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if st, ok := repo.db.students[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

// activeEnrollment resolves a student's enrollment in the active year, if
// any. Caller must hold the read lock.
func (repo *studentRepository) activeEnrollment(studentID string) *student.Enrollment {
	var activeYearID string
	for _, y := range repo.db.years {
		if y.IsActive {
			activeYearID = y.ID
			break
		}
	}
	if activeYearID == "" {
		return nil
	}
	for _, e := range repo.db.enrollments {
		if e.StudentID == studentID && e.AcademicYearID == activeYearID {
			enr := *e
			return &enr
		}
	}
	return nil
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	matches := make([]student.Student, 0)
	for _, st := range repo.db.students {
		if !filter.MatchesSearch(st.Name, st.AdmissionNumber, st.ParentMobile) {
			continue
		}
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if filter.Category != "" && st.Category != filter.Category {
			continue
		}
		if filter.BranchID != "" && st.BranchID != filter.BranchID {
			continue
		}

		cur := repo.activeEnrollment(st.ID)
		if filter.ClassID != "" && (cur == nil || cur.ClassID != filter.ClassID) {
			continue
		}
		if filter.DivisionID != "" && (cur == nil || cur.DivisionID != filter.DivisionID) {
			continue
		}

		stCopy := *st
		stCopy.CurrentEnrollment = cur
		matches = append(matches, stCopy)
	}

	asc := filter.SortOrder != core.SortDesc
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		var less bool
		switch filter.SortBy {
		case "name":
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "admission_number":
			less = a.AdmissionNumber < b.AdmissionNumber
		case "status":
			less = a.Status < b.Status
		case "created_at":
			less = a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.CreatedAt.After(b.CreatedAt) // newest first
		}
		if asc {
			return less
		}
		return !less
	})

	count := len(matches)
	lo, hi := core.PageBounds(count, filter.Page, filter.PageSize)
	return matches[lo:hi], count, nil
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if _, ok := repo.db.students[st.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	st.CurrentEnrollment = nil
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) DeleteStudentByID(id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.students, id)
	for eid, e := range repo.db.enrollments {
		if e.StudentID == id {
			delete(repo.db.enrollments, eid)
		}
	}
	return nil
}

func (repo *studentRepository) CountAdmissions(prefix string) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	var count int
	for _, st := range repo.db.students {
		if strings.HasPrefix(st.AdmissionNumber, prefix) {
			count++
		}
	}
	return count, nil
}

func (repo *studentRepository) CreateEnrollment(e student.Enrollment) (student.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.enrollments[e.ID] = &e
	return e, nil
}

func (repo *studentRepository) GetActiveEnrollment(studentID, academicYearID string) (student.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	for _, e := range repo.db.enrollments {
		if e.StudentID == studentID && e.AcademicYearID == academicYearID {
			return *e, nil
		}
	}
	return student.Enrollment{}, student.ErrEnrollmentNotFound
}

func (repo *studentRepository) QueryEnrollments(studentID string) ([]student.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	enrollments := make([]student.Enrollment, 0)
	for _, e := range repo.db.enrollments {
		if e.StudentID == studentID {
			enrollments = append(enrollments, *e)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].CreatedAt.After(enrollments[j].CreatedAt)
	})
	return enrollments, nil
}

func (repo *studentRepository) UpdateEnrollment(e student.Enrollment) (student.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if _, ok := repo.db.enrollments[e.ID]; !ok {
		return student.Enrollment{}, student.ErrEnrollmentNotFound
	}
	repo.db.enrollments[e.ID] = &e
	return e, nil
}

func (repo *studentRepository) CountByStatus() (map[string]int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	counts := make(map[string]int)
	for _, st := range repo.db.students {
		counts[st.Status]++
	}
	return counts, nil
}

func (repo *studentRepository) CountActiveByBranch() (map[string]int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	counts := make(map[string]int)
	for _, st := range repo.db.students {
		if st.Status != student.StatusActive {
			continue
		}
		name := st.BranchID
		if b, ok := repo.db.branches[st.BranchID]; ok {
			name = b.Name
		}
		counts[name]++
	}
	return counts, nil
}
