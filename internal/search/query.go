package search

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Table is the equipment table name.
const Table = "equipment"

// Columns is the select list shared by every equipment read. Dates are
// rendered as YYYY-MM-DD and nullable text is flattened to "".
var Columns = []string{
	"id",
	"type",
	"name",
	"COALESCE(TO_CHAR(purchase_date, 'YYYY-MM-DD'), '') AS purchase_date",
	"COALESCE(details, '') AS details",
	"status",
	"active",
	"created_at",
}

// SelectList is Columns joined for hand-written statements.
var SelectList = strings.Join(Columns, ", ")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// BuildQuery composes the search statement for f. Clauses are appended in
// a fixed order (type, code or name, purchase date, created date) after
// the active check, and every value is bound, never interpolated.
func BuildQuery(f Filter) (string, []interface{}, error) {
	b := psql.Select(Columns...).
		From(Table).
		Where("active = TRUE")

	if f.Type != "" {
		b = b.Where("LOWER(type) = LOWER(?)", f.Type)
	}

	switch {
	case f.CodeRange != nil:
		b = b.Where("id BETWEEN ? AND ?", f.CodeRange.Start, f.CodeRange.End)
	case f.CodePartial != "":
		b = b.Where("LOWER(CAST(id AS TEXT)) LIKE LOWER(?)", containsPattern(f.CodePartial))
	case f.Name != "":
		b = b.Where("LOWER(name) LIKE LOWER(?)", containsPattern(f.Name))
	}

	b = between(b, "purchase_date", f.PurchaseFrom, f.PurchaseTo)
	b = between(b, "created_at", f.CreatedFrom, f.CreatedTo)

	return b.OrderBy("id").ToSql()
}

// between adds an inclusive range when both bounds are set and a one-sided
// comparison when only one is.
func between(b sq.SelectBuilder, column, from, to string) sq.SelectBuilder {
	switch {
	case from != "" && to != "":
		return b.Where(column+" BETWEEN ? AND ?", from, to)
	case from != "":
		return b.Where(column+" >= ?", from)
	case to != "":
		return b.Where(column+" <= ?", to)
	}
	return b
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps term for a substring LIKE, escaping wildcards so
// they match literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
