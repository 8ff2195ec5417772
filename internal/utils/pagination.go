package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// GalleryPageSize is the number of participants shown per gallery page.
const GalleryPageSize = 10

// MessagePageSize is the number of messages shown per organizer group page.
const MessagePageSize = 4

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// PageCount returns ceil(n/size). An empty listing has zero pages.
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage bounds page to [0, PageCount(n,size)-1], or 0 when empty.
func ClampPage(page, n, size int) int {
	last := PageCount(n, size) - 1
	if page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Paginate returns the clamped page of items. Items is never nil.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = GalleryPageSize
	}
	page = ClampPage(page, len(items), size)
	start := page * size
	end := min(start+size, len(items))

	out := make([]T, 0, end-start)
	if start < end {
		out = append(out, items[start:end]...)
	}
	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		TotalPages: PageCount(len(items), size),
		TotalItems: len(items),
	}
}

// NextPage advances with wraparound to the first page.
func NextPage(page, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return (page + 1) % totalPages
}

// PrevPage steps back with wraparound to the last page.
func PrevPage(page, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return (page - 1 + totalPages) % totalPages
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// PassFilename builds "<name>-<flat>-vighnaharta-pass-<unixms>.png".
func PassFilename(name, flatNumber string, at time.Time) string {
	return fmt.Sprintf("%s-%s-vighnaharta-pass-%d.png", slug(name), slug(flatNumber), at.UnixMilli())
}
