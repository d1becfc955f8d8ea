package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

var (
	ErrUnknownResource = httperr.ErrNotFound("unknown_resource", "No admin resource with this name.")
	ErrResourceDenied  = httperr.ErrForbidden("admin_only", "Only administrators can perform this action.")
	ErrBadSearchPath   = httperr.ErrRule("invalid_search_field", "Search field is not configured correctly.")
)

// ListParams are the changelist query parameters.
type ListParams struct {
	Search   string
	Filters  map[string]string
	Year     int
	Month    int
	Day      int
	Ordering string
	Limit    int
	Offset   int
}

type ListResult struct {
	Data  any
	Total int64
}

// List runs the changelist query for resource name as actor.
func List(ctx context.Context, db *gorm.DB, actor access.Actor, name string, p ListParams) (*ListResult, error) {
	res, ok := Lookup(name)
	if !ok {
		return nil, ErrUnknownResource
	}

	q := db.WithContext(ctx).Table(res.table)

	switch {
	case actor.IsAdmin:
	case res.TrainerAccess && actor.IsTrainer():
		q = q.Where(res.table+"."+res.trainerScope+" = ?", actor.UserID)
	default:
		return nil, ErrResourceDenied
	}

	q, err := applySearch(q, res, p.Search)
	if err != nil {
		return nil, err
	}
	q = applyFilters(q, res, p.Filters)
	q = applyDateHierarchy(q, res, p.Year, p.Month, p.Day)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	for _, o := range orderClauses(res, p.Ordering) {
		q = q.Order(o)
	}
	for _, assoc := range res.preload {
		q = q.Preload(assoc)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}

	dest := res.newSlice()
	if err := q.Find(dest).Error; err != nil {
		return nil, err
	}

	return &ListResult{Data: dest, Total: total}, nil
}

// ======================================================
// SEARCH
// ======================================================

func applySearch(q *gorm.DB, res Resource, term string) (*gorm.DB, error) {
	term = strings.TrimSpace(term)
	if term == "" || len(res.SearchFields) == 0 {
		return q, nil
	}

	pattern := "%" + strings.ToLower(term) + "%"
	clauses := make([]string, 0, len(res.SearchFields))
	args := make([]any, 0, len(res.SearchFields))

	for _, field := range res.SearchFields {
		clause, err := searchClause(res.table, strings.Split(field, "__"))
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, pattern)
	}

	return q.Where("("+strings.Join(clauses, " OR ")+")", args...), nil
}

// searchClause turns a double underscore path such as member_package__user__username
// into nested IN subqueries ending in a LIKE on the last column.
func searchClause(table string, path []string) (string, error) {
	if len(path) == 1 {
		return fmt.Sprintf("LOWER(%s.%s) LIKE ?", table, path[0]), nil
	}

	rel, ok := relations[table][path[0]]
	if !ok {
		return "", ErrBadSearchPath
	}

	inner, err := searchClause(rel.Table, path[1:])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s IN (SELECT %s.id FROM %s WHERE %s)",
		table, rel.Column, rel.Table, rel.Table, inner), nil
}

// ======================================================
// FILTERS
// ======================================================

func applyFilters(q *gorm.DB, res Resource, filters map[string]string) *gorm.DB {
	for _, name := range res.ListFilter {
		raw, ok := filters[name]
		if !ok || raw == "" {
			continue
		}

		column := name
		if rel, ok := relations[res.table][name]; ok {
			column = rel.Column
		}
		q = q.Where(res.table+"."+column+" = ?", filterValue(raw))
	}
	return q
}

func filterValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}

// ======================================================
// DATE HIERARCHY
// ======================================================

func applyDateHierarchy(q *gorm.DB, res Resource, year, month, day int) *gorm.DB {
	if res.DateHierarchy == "" || year <= 0 {
		return q
	}

	loc := timezone.Gym()
	var from, to time.Time
	switch {
	case month >= 1 && month <= 12 && day >= 1:
		from = time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 0, 1)
	case month >= 1 && month <= 12:
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 1, 0)
	default:
		from = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		to = from.AddDate(1, 0, 0)
	}

	col := res.table + "." + res.DateHierarchy
	return q.Where(col+" >= ? AND "+col+" < ?", from, to)
}

// ======================================================
// ORDERING
// ======================================================

func orderClauses(res Resource, requested string) []string {
	fields := res.Ordering
	if requested != "" {
		name := strings.TrimPrefix(requested, "-")
		if isOrderable(res, name) {
			fields = []string{requested}
		}
	}

	out := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if strings.HasPrefix(f, "-") {
			out = append(out, res.table+"."+strings.TrimPrefix(f, "-")+" DESC")
		} else {
			out = append(out, res.table+"."+f+" ASC")
		}
	}
	return append(out, res.table+".id DESC")
}

func isOrderable(res Resource, name string) bool {
	if _, isRelation := relations[res.table][name]; isRelation {
		return false
	}
	for _, col := range res.ListDisplay {
		if col == name {
			return true
		}
	}
	return false
}
