package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kicentre/madrasa/core"
)

// condSet accumulates WHERE conditions with sequential $N placeholders.
// Condition expressions use %d for the placeholder index, e.g. "status = $%d".
type condSet struct {
	conds []string
	args  []interface{}
}

func (cs *condSet) add(expr string, arg interface{}) {
	cs.args = append(cs.args, arg)
	cs.conds = append(cs.conds, fmt.Sprintf(expr, len(cs.args)))
}

func (cs *condSet) where() string {
	if len(cs.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(cs.conds, " AND ")
}

func pageClause(ord core.DBOrdering, q core.ListQuery) string {
	return fmt.Sprintf(" ORDER BY %s LIMIT %d OFFSET %d", ord, q.PageSize, q.Offset())
}

func likeTerm(search string) string {
	return "%" + search + "%"
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func strVal(ns sql.NullString) string {
	return ns.String
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
