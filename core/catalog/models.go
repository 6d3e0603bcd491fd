package catalog

import (
	"time"

	"github.com/kicentre/madrasa/core"
)

// Branch is a physical center of the organization (e.g. Wakra, Najma).
// Its code prefixes student admission numbers.
type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Class is a grade level (Class 1 .. Class 10).
type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Division is a section within a class at a branch (A, B, ...).
type Division struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClassID   string    `json:"class_id"`
	BranchID  string    `json:"branch_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AcademicYear is a school year; exactly one may be active at a time.
type AcademicYear struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"` // e.g. "2025-2026"
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewBranch struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,min=2,max=8,alphanum"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (nb *NewBranch) Validate() error {
	nb.Name = core.CleanString(nb.Name)
	nb.Code = core.CleanString(nb.Code, true /* lower */)
	return core.Validate.Struct(nb)
}

type NewClass struct {
	Name  string `json:"name" validate:"required"`
	Level int    `json:"level" validate:"required,min=1"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

type NewDivision struct {
	Name     string `json:"name" validate:"required"`
	ClassID  string `json:"class_id" validate:"required"`
	BranchID string `json:"branch_id" validate:"required"`
}

func (nd *NewDivision) Validate() error {
	nd.Name = core.CleanString(nd.Name)
	return core.Validate.Struct(nd)
}

type NewAcademicYear struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	IsActive  bool      `json:"is_active"`
}

func (ny *NewAcademicYear) Validate() error {
	ny.Name = core.CleanString(ny.Name)
	return core.Validate.Struct(ny)
}
