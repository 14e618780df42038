package models

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (Page-1)*Limit inside an int32 OFFSET.
	MaxPage = math.MaxInt32 / MaxLimit
)

type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest reads ?page= and ?limit= values, falling back to defaults
// for anything missing, malformed or non-positive.
func ParsePageRequest(page, limit string) PageRequest {
	req := PageRequest{Page: DefaultPage, Limit: DefaultLimit}
	if p, err := strconv.Atoi(page); err == nil {
		req.Page = p
	}
	if l, err := strconv.Atoi(limit); err == nil {
		req.Limit = l
	}
	return req.Normalize()
}

func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Page > MaxPage {
		r.Page = MaxPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

func (r PageRequest) Offset() int { return (r.Page - 1) * r.Limit }

type Page[T any] struct {
	Items       []T
	TotalCount  int
	CurrentPage int
	TotalPages  int
}

func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		TotalCount:  total,
		CurrentPage: req.Page,
		TotalPages:  TotalPages(total, req.Limit),
	}
}

func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
