package db

import "strings"

// Filter accumulates WHERE predicates with their placeholder arguments so
// optional query filters compose without string concatenation at call sites.
type Filter struct {
	conds []string
	args  []any
}

func NewFilter() *Filter {
	return &Filter{}
}

// Add appends one predicate, e.g. Add("s.status = ?", status).
func (f *Filter) Add(cond string, args ...any) *Filter {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
	return f
}

// Where renders " WHERE a AND b", or the empty string when nothing was added.
func (f *Filter) Where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// And renders " AND a AND b" for queries that already open a WHERE clause.
func (f *Filter) And() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " AND " + strings.Join(f.conds, " AND ")
}

func (f *Filter) Args() []any {
	return f.args
}
