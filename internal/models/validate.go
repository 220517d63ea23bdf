package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks that the link has both a label and a target.
func (l LinkItem) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Label, validation.Required),
		validation.Field(&l.Href, validation.Required),
	)
}

// Validate checks the nested evidence entries.
func (s Sections) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Evidence),
	)
}
