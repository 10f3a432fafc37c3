// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/contentdesk/internal/model"
)

// UploadSuffix marks the hidden input holding the URL of an attached upload.
// An attached upload always wins over the manual URL field.
const UploadSuffix = "_upload"

// urlField returns the upload URL for name if present, else the manual URL.
func urlField(form url.Values, name string) *string {
	if v := strings.TrimSpace(form.Get(name + UploadSuffix)); v != "" {
		return &v
	}
	return optional(form, name)
}

// optional returns nil for a missing or blank value.
func optional(form url.Values, name string) *string {
	v := strings.TrimSpace(form.Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func checkbox(form url.Values, name string) bool {
	switch form.Get(name) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// integer parses a number field. Unparseable input reads as zero.
func integer(form url.Values, name string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(form.Get(name)), 10, 64)
	return n
}

func optionalInt(form url.Values, name string) *int64 {
	v := strings.TrimSpace(form.Get(name))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// lines splits a textarea into lines. Blank lines are dropped by Trimmed.
func lines(form url.Values, name string) []string {
	v := strings.ReplaceAll(form.Get(name), "\r\n", "\n")
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return strings.Split(v, "\n")
}

func joinLines(ls []string) string {
	return strings.Join(ls, "\n")
}

// people reads the indexed inputs people.N.name, people.N.title and so on.
// Indexes need not be contiguous; rows keep ascending index order.
func people(form url.Values) []model.Person {
	var out []model.Person
	for _, n := range peopleIndexes(form) {
		out = append(out, personAt(form, n))
	}
	return out
}

// peopleIndexes returns the submitted row indexes in ascending order.
func peopleIndexes(form url.Values) []int {
	seen := map[int]bool{}
	for key := range form {
		rest, ok := strings.CutPrefix(key, "people.")
		if !ok {
			continue
		}
		idx, _, ok := strings.Cut(rest, ".")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(idx); err == nil && n >= 0 {
			seen[n] = true
		}
	}

	indexes := make([]int, 0, len(seen))
	for n := range seen {
		indexes = append(indexes, n)
	}
	sort.Ints(indexes)
	return indexes
}

func personAt(form url.Values, n int) model.Person {
	prefix := fmt.Sprintf("people.%d.", n)
	return model.Person{
		Name:        form.Get(prefix + "name"),
		Title:       form.Get(prefix + "title"),
		Subtitle:    form.Get(prefix + "subtitle"),
		Speaker:     form.Get(prefix + "speaker"),
		Description: lines(form, prefix+"description"),
	}
}

// peopleFieldKey maps "people.K.field", where K indexes the people left
// after blank rows were dropped, to the row index the form submitted.
func peopleFieldKey(form url.Values, key string) string {
	rest, ok := strings.CutPrefix(key, "people.")
	if !ok {
		return key
	}
	idx, field, ok := strings.Cut(rest, ".")
	if !ok {
		return key
	}
	k, err := strconv.Atoi(idx)
	if err != nil {
		return key
	}

	var rows []int
	for _, n := range peopleIndexes(form) {
		if !personAt(form, n).Trimmed().IsBlank() {
			rows = append(rows, n)
		}
	}
	if k < 0 || k >= len(rows) {
		return key
	}
	return fmt.Sprintf("people.%d.%s", rows[k], field)
}

func encodePeople(v url.Values, ps []model.Person) {
	for i, p := range ps {
		prefix := fmt.Sprintf("people.%d.", i)
		v.Set(prefix+"name", p.Name)
		v.Set(prefix+"title", p.Title)
		v.Set(prefix+"subtitle", p.Subtitle)
		v.Set(prefix+"speaker", p.Speaker)
		v.Set(prefix+"description", joinLines(p.Description))
	}
}

func formatInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func shortTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func appendURL(urls []string, u *string) []string {
	if u != nil {
		urls = append(urls, *u)
	}
	return urls
}
