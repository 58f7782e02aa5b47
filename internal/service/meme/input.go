package meme

import (
	"strings"

	"github.com/google/uuid"
	"github.com/memecached/memecached-web/internal/domain"
)

const (
	MaxDescriptionLen = 2000
	MaxTagsPerMeme    = 20
	MaxTagLen         = 50
	MaxBulkIDs        = 100
)

func validateTagNames(errs []domain.FieldError, field string, names []string) []domain.FieldError {
	normalized := domain.NormalizeTags(names)
	if len(normalized) == 0 {
		errs = append(errs, domain.FieldError{Field: field, Message: "at least one tag required"})
	}
	if len(normalized) > MaxTagsPerMeme {
		errs = append(errs, domain.FieldError{Field: field, Message: "max 20 tags"})
	}
	for _, name := range normalized {
		if len(name) > MaxTagLen {
			errs = append(errs, domain.FieldError{Field: field, Message: "tag max 50 characters"})
			break
		}
	}
	return errs
}

func validateIDSet(errs []domain.FieldError, field string, ids []uuid.UUID) []domain.FieldError {
	if len(ids) == 0 {
		errs = append(errs, domain.FieldError{Field: field, Message: "at least one id required"})
	}
	if len(ids) > MaxBulkIDs {
		errs = append(errs, domain.FieldError{Field: field, Message: "max 100 ids"})
	}
	for _, id := range ids {
		if id == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: field, Message: "contains a nil id"})
			break
		}
	}
	return errs
}

// CreateMemeInput holds the parameters for cataloguing a new meme.
type CreateMemeInput struct {
	ImageURL    string
	ImageWidth  *int
	ImageHeight *int
	Description string
	Tags        []string
}

// Validate checks all fields and collects all errors.
func (i CreateMemeInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.ImageURL) == "" {
		errs = append(errs, domain.FieldError{Field: "image_url", Message: "required"})
	}
	if strings.TrimSpace(i.Description) == "" {
		errs = append(errs, domain.FieldError{Field: "description", Message: "required"})
	}
	if len(i.Description) > MaxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 2000 characters"})
	}
	if i.ImageWidth != nil && *i.ImageWidth <= 0 {
		errs = append(errs, domain.FieldError{Field: "image_width", Message: "must be positive"})
	}
	if i.ImageHeight != nil && *i.ImageHeight <= 0 {
		errs = append(errs, domain.FieldError{Field: "image_height", Message: "must be positive"})
	}
	errs = validateTagNames(errs, "tags", i.Tags)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateMemeInput holds the parameters for a partial meme update.
// Tags nil means "leave tags alone"; an empty non-nil slice is rejected,
// a meme always keeps at least one tag.
type UpdateMemeInput struct {
	MemeID      uuid.UUID
	Description *string
	Tags        []string
}

// Validate checks all fields and collects all errors.
func (i UpdateMemeInput) Validate() error {
	var errs []domain.FieldError

	if i.MemeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "meme_id", Message: "required"})
	}
	if i.Description != nil {
		if strings.TrimSpace(*i.Description) == "" {
			errs = append(errs, domain.FieldError{Field: "description", Message: "required"})
		}
		if len(*i.Description) > MaxDescriptionLen {
			errs = append(errs, domain.FieldError{Field: "description", Message: "max 2000 characters"})
		}
	}
	if i.Tags != nil {
		errs = validateTagNames(errs, "tags", i.Tags)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteMemeInput holds the parameters for deleting a single meme.
type DeleteMemeInput struct {
	MemeID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DeleteMemeInput) Validate() error {
	if i.MemeID == uuid.Nil {
		return domain.NewValidationError("meme_id", "required")
	}
	return nil
}

// BulkDeleteInput holds the id set for an all-or-nothing bulk delete.
type BulkDeleteInput struct {
	MemeIDs []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i BulkDeleteInput) Validate() error {
	var errs []domain.FieldError
	errs = validateIDSet(errs, "meme_ids", i.MemeIDs)
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// BulkTagInput holds the id set and tag names for a merge-add bulk tag.
type BulkTagInput struct {
	MemeIDs []uuid.UUID
	Tags    []string
}

// Validate checks all fields and collects all errors.
func (i BulkTagInput) Validate() error {
	var errs []domain.FieldError
	errs = validateIDSet(errs, "meme_ids", i.MemeIDs)
	errs = validateTagNames(errs, "tags", i.Tags)
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
