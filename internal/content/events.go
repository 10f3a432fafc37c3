// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/resource"
)

// jsonColumn encodes v for a nullable JSON text column. Empty slices are NULL.
func jsonColumn[T any](v []T) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON[T any](ns sql.NullString, column string) ([]T, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", column, err)
	}
	return out, nil
}

var eventSchema = resource.Schema[model.Event, model.EventInput]{
	Entity:  "event",
	Table:   "events",
	Columns: []string{"title", "description", "banner_description", "people"},
	Values: func(in model.EventInput) ([]any, error) {
		banner, err := jsonColumn(in.BannerDescription)
		if err != nil {
			return nil, fmt.Errorf("encoding banner_description: %w", err)
		}
		people, err := jsonColumn(in.People)
		if err != nil {
			return nil, fmt.Errorf("encoding people: %w", err)
		}
		return []any{in.Title, in.Description, banner, people}, nil
	},
	Scan: func(row resource.Scanner) (model.Event, error) {
		var e model.Event
		var banner, people sql.NullString
		if err := row.Scan(&e.ID, &e.Title, &e.Description, &banner, &people, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return e, err
		}
		var err error
		if e.BannerDescription, err = scanJSON[string](banner, "banner_description"); err != nil {
			return e, err
		}
		if e.People, err = scanJSON[model.Person](people, "people"); err != nil {
			return e, err
		}
		return e, nil
	},
	ID: func(e model.Event) string { return strconv.FormatInt(e.ID, 10) },
}

func eventView() resource.View[model.Event, model.EventInput] {
	return resource.View[model.Event, model.EventInput]{
		Segment:  SegmentEvents,
		Label:    "Events",
		Singular: "Event",
		Columns: []resource.Column[model.Event]{
			{Header: "Title", Value: func(e model.Event) string { return e.Title }},
			{Header: "People", Value: func(e model.Event) string { return strconv.Itoa(len(e.People)) }},
			{Header: "Updated", Value: func(e model.Event) string { return shortTime(e.UpdatedAt) }},
		},
		Title: func(e model.Event) string { return e.Title },
		Detail: func(e model.Event) []resource.Field {
			return []resource.Field{
				{Label: "Description", Kind: resource.ShowMarkdown, Value: e.Description},
				{Label: "Banner", Kind: resource.ShowLines, Value: e.BannerDescription},
				{Label: "People", Kind: resource.ShowPeople, Value: e.People},
			}
		},
		Form: []resource.FormField{
			{Name: "title", Label: "Title", Type: resource.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: resource.FieldTextarea, Required: true, Help: "Markdown supported"},
			{Name: "banner_description", Label: "Banner lines", Type: resource.FieldLines, Help: "One line per row"},
			{Name: "people", Label: "People", Type: resource.FieldPeople},
		},
		Decode: func(f url.Values) model.EventInput {
			return model.EventInput{
				Title:             f.Get("title"),
				Description:       f.Get("description"),
				BannerDescription: lines(f, "banner_description"),
				People:            people(f),
			}
		},
		Encode: func(in model.EventInput) url.Values {
			v := url.Values{
				"title":              {in.Title},
				"description":        {in.Description},
				"banner_description": {joinLines(in.BannerDescription)},
			}
			encodePeople(v, in.People)
			return v
		},
		Input:    model.Event.Input,
		FieldKey: peopleFieldKey,
	}
}
