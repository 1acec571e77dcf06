// Package listing parses the query string shared by every list endpoint:
// page, per_page, search and a set of named filters.
package listing

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 15
	MaxPerPage     = 100
)

var ErrInvalidParam = errors.New("invalid query parameter")

type Query struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]string
}

type Meta struct {
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

// Page is the envelope every list response is written in.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// Parse reads a Query from values, keeping only the filters named in allowed.
// Missing or empty page/per_page fall back to defaults; per_page is clamped to MaxPerPage.
func Parse(values url.Values, allowed ...string) (Query, error) {
	q := Query{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		Search:  strings.TrimSpace(values.Get("search")),
		Filters: make(map[string]string),
	}

	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Query{}, fmt.Errorf("%w: page must be a positive integer", ErrInvalidParam)
		}
		q.Page = n
	}
	if raw := values.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Query{}, fmt.Errorf("%w: per_page must be a positive integer", ErrInvalidParam)
		}
		q.PerPage = min(n, MaxPerPage)
	}

	for _, name := range allowed {
		if v := strings.TrimSpace(values.Get(name)); v != "" {
			q.Filters[name] = v
		}
	}
	return q, nil
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.PerPage
}

func (q Query) Limit() int {
	return q.PerPage
}

func (q Query) Filter(name string) (string, bool) {
	v, ok := q.Filters[name]
	return v, ok
}

// BoolFilter interprets a filter as a boolean. Unparseable values are an error.
func (q Query) BoolFilter(name string) (*bool, error) {
	v, ok := q.Filters[name]
	if !ok {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", ErrInvalidParam, name)
	}
	return &b, nil
}

func (q Query) Meta(total int) Meta {
	last := 1
	if total > 0 {
		last = (total + q.PerPage - 1) / q.PerPage
	}
	return Meta{Page: q.Page, PerPage: q.PerPage, Total: total, LastPage: last}
}

func NewPage[T any](q Query, data []T, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Meta: q.Meta(total)}
}
