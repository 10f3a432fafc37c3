// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// Validator checks input structs and reports failures keyed by form field.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator that names fields by their form tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates in. It returns nil or a *ValidationError.
func (v *Validator) Struct(in any) error {
	err := v.v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: map[string]string{"_": err.Error()}}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.Namespace())
		if _, seen := fields[key]; !seen {
			fields[key] = message(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

// fieldKey turns "EventInput.people[0].name" into "people.0.name".
func fieldKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	case "min":
		return label + " must be at least " + fe.Param()
	default:
		return label + " is invalid"
	}
}

// humanize turns "published_date" into "Published date".
func humanize(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
