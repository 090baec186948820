// Package search turns equipment search parameters into a filter and the
// filter into a single parameterized query.
package search

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameters understood by ParseFilter.
const (
	ParamType             = "type"
	ParamSearchType       = "searchType"
	ParamSearchTerm       = "searchTerm"
	ParamStartDate        = "startDate"
	ParamEndDate          = "endDate"
	ParamCreatedStartDate = "createdStartDate"
	ParamCreatedEndDate   = "createdEndDate"
)

const (
	SearchByCode = "code"
	SearchByName = "name"
)

// Suffixes that widen a created_at date to a whole day.
const (
	dayStart = " 00:00:00"
	dayEnd   = " 23:59:59"
)

// CodeRange is an inclusive id range taken from a "start-end" search term.
type CodeRange struct {
	Start int64
	End   int64
}

// Filter is the typed form of the equipment search parameters. A zero
// Filter selects every active record.
type Filter struct {
	Type        string
	CodeRange   *CodeRange
	CodePartial string
	Name        string

	PurchaseFrom string
	PurchaseTo   string

	// Already widened to full-day timestamps.
	CreatedFrom string
	CreatedTo   string
}

// ParseFilter reads the recognized parameters from q. It never fails:
// unknown parameters are ignored and a malformed code range contributes
// no clause. Values are passed through as strings; the store rejects
// dates it cannot coerce.
func ParseFilter(q url.Values) Filter {
	get := func(key string) string { return strings.TrimSpace(q.Get(key)) }

	f := Filter{
		Type:         get(ParamType),
		PurchaseFrom: get(ParamStartDate),
		PurchaseTo:   get(ParamEndDate),
	}

	term := get(ParamSearchTerm)
	switch searchType := get(ParamSearchType); {
	case term == "":
	case strings.EqualFold(searchType, SearchByCode):
		f.CodeRange, f.CodePartial = parseCode(term)
	case strings.EqualFold(searchType, SearchByName):
		f.Name = term
	}

	if d := get(ParamCreatedStartDate); d != "" {
		f.CreatedFrom = d + dayStart
	}
	if d := get(ParamCreatedEndDate); d != "" {
		f.CreatedTo = d + dayEnd
	}

	return f
}

// parseCode returns a range for "start-end" with two integer bounds, a
// partial term when there is no dash, and neither for anything else.
func parseCode(term string) (*CodeRange, string) {
	if !strings.Contains(term, "-") {
		return nil, term
	}
	if strings.Count(term, "-") != 1 {
		return nil, ""
	}

	start, end, _ := strings.Cut(term, "-")
	lo, err := strconv.ParseInt(strings.TrimSpace(start), 10, 64)
	if err != nil {
		return nil, ""
	}
	hi, err := strconv.ParseInt(strings.TrimSpace(end), 10, 64)
	if err != nil {
		return nil, ""
	}
	return &CodeRange{Start: lo, End: hi}, ""
}
