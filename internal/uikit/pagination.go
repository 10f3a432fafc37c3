// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// AdminPagination holds pagination data for the dashboard list. Page
// indexes are 0-based in URLs; Number is the 1-based label shown to people.
type AdminPagination struct {
	Index       int
	TotalPages  int
	TotalItems  int64
	Size        int
	HasPrev     bool
	HasNext     bool
	Pages       []AdminPaginationPage
	BaseURL     string
	QueryString string // preserved parameters other than page
}

// AdminPaginationPage represents a single page link in admin pagination.
type AdminPaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// BuildAdminPagination creates pagination data for the page at index.
// queryParams are kept in every link except for "page".
func BuildAdminPagination(index int, totalItems int64, size int, baseURL string, queryParams url.Values) AdminPagination {
	totalPages := CalculateTotalPages(totalItems, size)

	p := AdminPagination{
		Index:      index,
		TotalPages: totalPages,
		TotalItems: totalItems,
		Size:       size,
		HasPrev:    index > 0,
		HasNext:    index < totalPages-1,
		BaseURL:    baseURL,
	}

	params := make(url.Values)
	for k, v := range queryParams {
		if k != "page" && len(v) > 0 && v[0] != "" {
			params[k] = v
		}
	}
	if len(params) > 0 {
		p.QueryString = params.Encode()
	}

	p.Pages = BuildPaginationPages(index+1, totalPages,
		func(n int) string { return p.PageURL(n - 1) },
		func(number int, pageURL string, isCurrent, isEllipsis bool) AdminPaginationPage {
			return AdminPaginationPage{Number: number, URL: pageURL, IsCurrent: isCurrent, IsEllipsis: isEllipsis}
		})

	return p
}

// PageURL returns the URL for the page at index.
func (p AdminPagination) PageURL(index int) string {
	if p.QueryString != "" {
		return fmt.Sprintf("%s?%s&page=%d", p.BaseURL, p.QueryString, index)
	}
	return fmt.Sprintf("%s?page=%d", p.BaseURL, index)
}

// PrevURL returns the URL for the previous page.
func (p AdminPagination) PrevURL() string {
	return p.PageURL(p.Index - 1)
}

// NextURL returns the URL for the next page.
func (p AdminPagination) NextURL() string {
	return p.PageURL(p.Index + 1)
}

// ShouldShow returns true if pagination should be displayed (more than 1 page).
func (p AdminPagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// PageRange describes the rows on the current page, e.g. "11-20".
func (p AdminPagination) PageRange() string {
	if p.TotalItems == 0 {
		return "0"
	}
	start := int64(p.Index*p.Size) + 1
	end := min(int64((p.Index+1)*p.Size), p.TotalItems)
	return fmt.Sprintf("%d-%d", start, end)
}

// BuildPaginationPages generates page links with ellipsis for any pagination type.
// It shows 5 page numbers centered on the current page, with "..." for gaps,
// and always includes the first and last pages. Page numbers are 1-based.
func BuildPaginationPages[T any](
	currentPage, totalPages int,
	buildURL func(int) string,
	makePage func(number int, pageURL string, isCurrent, isEllipsis bool) T,
) []T {
	var pages []T

	start := currentPage - 2
	end := currentPage + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > totalPages {
		end = totalPages
		start = max(end-4, 1)
	}

	if start > 1 {
		pages = append(pages, makePage(1, buildURL(1), false, false))
		if start > 2 {
			pages = append(pages, makePage(0, "", false, true))
		}
	}

	for i := start; i <= end; i++ {
		pages = append(pages, makePage(i, buildURL(i), i == currentPage, false))
	}

	if end < totalPages {
		if end < totalPages-1 {
			pages = append(pages, makePage(0, "", false, true))
		}
		pages = append(pages, makePage(totalPages, buildURL(totalPages), false, false))
	}

	return pages
}

// CalculateTotalPages returns the number of pages for totalItems, at least 1.
func CalculateTotalPages(totalItems int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	return totalPages
}

// ParseIntParam parses an integer query parameter from the request.
// Returns defaultVal if the parameter is missing, empty, or invalid.
func ParseIntParam(r *http.Request, param string, defaultVal int) int {
	str := r.URL.Query().Get(param)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	return val
}
