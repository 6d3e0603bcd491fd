package fee

import (
	"strings"
	"time"

	"github.com/kicentre/madrasa/core"
)

// Payment methods
const (
	MethodCash         = "CASH"
	MethodCard         = "CARD"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCheque       = "CHEQUE"
	MethodOther        = "OTHER"
)

// Collection statuses
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusCancelled = "CANCELLED"
)

// Structure is the fee amount assessed per class for an academic year.
// Amounts are stored in the smallest currency unit (dirhams).
type Structure struct {
	ID             string    `json:"id"`
	AcademicYearID string    `json:"academic_year_id"`
	ClassID        string    `json:"class_id"`
	Name           string    `json:"name"` // e.g. "Annual Tuition"
	Amount         int64     `json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Collection is one fee payment transaction.
type Collection struct {
	ID              string     `json:"id"`
	ReceiptNumber   string     `json:"receipt_number"` // auto-generated: KIC-2026-08-0001
	StudentID       string     `json:"student_id"`
	AcademicYearID  string     `json:"academic_year_id"`
	CollectionDate  time.Time  `json:"collection_date"`
	CollectedByID   string     `json:"collected_by_id"`
	PaymentMethod   string     `json:"payment_method"`
	Amount          int64      `json:"amount"`
	ReferenceNumber string     `json:"reference_number,omitempty"` // cheque number, transaction ID, etc.
	Remarks         string     `json:"remarks,omitempty"`
	Status          string     `json:"status"`
	ApprovedByID    string     `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type NewStructure struct {
	AcademicYearID string `json:"academic_year_id" validate:"required"`
	ClassID        string `json:"class_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Amount         int64  `json:"amount" validate:"required,min=0"`
}

func (ns *NewStructure) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

type NewCollection struct {
	StudentID       string    `json:"student_id" validate:"required"`
	AcademicYearID  string    `json:"academic_year_id"`
	CollectionDate  time.Time `json:"collection_date"`
	PaymentMethod   string    `json:"payment_method" validate:"required,oneof=CASH CARD BANK_TRANSFER CHEQUE OTHER"`
	Amount          int64     `json:"amount" validate:"required,min=1"`
	ReferenceNumber string    `json:"reference_number"`
	Remarks         string    `json:"remarks"`
}

func (nc *NewCollection) Validate() error {
	nc.Remarks = core.CleanString(nc.Remarks)
	return core.Validate.Struct(nc)
}

// Balance is a student's assessed vs paid position for an academic year.
type Balance struct {
	StudentID      string `json:"student_id"`
	AcademicYearID string `json:"academic_year_id"`
	Assessed       int64  `json:"assessed"`
	Paid           int64  `json:"paid"` // approved collections only
	Outstanding    int64  `json:"outstanding"`
}

// QueryFilter narrows collection list queries. Search matches receipt number
// or reference number.
type QueryFilter struct {
	core.ListQuery
	StudentID      string     `query:"student"`
	AcademicYearID string     `query:"academic_year"`
	Status         string     `query:"status"`
	Method         string     `query:"method"`
	DateFrom       *time.Time `query:"date_from"`
	DateTo         *time.Time `query:"date_to"`
}

func (qf *QueryFilter) Clean() {
	qf.ListQuery.Clean()
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
	qf.Method = strings.ToUpper(core.CleanString(qf.Method))
}
