package cms

import (
	"net/url"
	"strconv"
	"strings"
)

type filter struct {
	path  []string
	op    string
	value string
}

// Query builds the filter/sort/fields/limit parameters of an item query.
type Query struct {
	filters []filter
	sort    []string
	fields  []string
	limit   int
}

func NewQuery() *Query {
	return &Query{}
}

// Eq adds an equality filter. Nested relation fields use dots,
// e.g. "category.slug".
func (q *Query) Eq(field, value string) *Query {
	q.filters = append(q.filters, filter{path: strings.Split(field, "."), op: "_eq", value: value})
	return q
}

// SetSort sets the sort fields; a leading "-" sorts descending.
func (q *Query) SetSort(fields ...string) *Query {
	q.sort = fields
	return q
}

// SetFields selects fields, including relation expansions like "category.*".
func (q *Query) SetFields(fields ...string) *Query {
	q.fields = fields
	return q
}

// SetLimit caps the result count. Values <= 0 leave the query unlimited.
func (q *Query) SetLimit(n int) *Query {
	if n > 0 {
		q.limit = n
	}
	return q
}

func (q *Query) Values() url.Values {
	v := url.Values{}
	for _, f := range q.filters {
		key := "filter"
		for _, p := range f.path {
			key += "[" + p + "]"
		}
		key += "[" + f.op + "]"
		v.Set(key, f.value)
	}
	if len(q.sort) > 0 {
		v.Set("sort", strings.Join(q.sort, ","))
	}
	if len(q.fields) > 0 {
		v.Set("fields", strings.Join(q.fields, ","))
	}
	if q.limit > 0 {
		v.Set("limit", strconv.Itoa(q.limit))
	}
	return v
}

func (q *Query) Encode() string {
	return q.Values().Encode()
}
