package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/taxonomist/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidStatus = errors.New("invalid video status")
	ErrInvalidRule   = errors.New("invalid taxonomy rule")
	ErrInvalidVideo  = errors.New("invalid video")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a row id is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidID, paramName, id)
	}
	return nil
}

// validateStatuses ensures every status is known.
func validateStatuses(statuses []model.VideoStatus) error {
	for _, st := range statuses {
		if !st.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, st)
		}
	}
	return nil
}

// validateTaxonomyRule validates a taxonomy rule before it is persisted.
func validateTaxonomyRule(rule *model.TaxonomyRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if strings.TrimSpace(rule.Pattern) == "" {
		return fmt.Errorf("%w: missing pattern", ErrInvalidRule)
	}
	if rule.CategoryID <= 0 {
		return fmt.Errorf("%w: category_id must be > 0", ErrInvalidRule)
	}
	if rule.SubcategoryID < 0 {
		return fmt.Errorf("%w: subcategory_id must not be negative", ErrInvalidRule)
	}
	if math.IsNaN(rule.Weight) || rule.Weight < 0 || rule.Weight > 1 {
		return fmt.Errorf("%w: weight must be between 0 and 1", ErrInvalidRule)
	}
	return nil
}

// validateVideoUpdate validates a partial video update.
func validateVideoUpdate(update model.VideoUpdate) error {
	if update.CategoryID != nil && *update.CategoryID < 0 {
		return fmt.Errorf("%w: category_id must not be negative", ErrInvalidVideo)
	}
	if update.SubcategoryID != nil && *update.SubcategoryID < 0 {
		return fmt.Errorf("%w: subcategory_id must not be negative", ErrInvalidVideo)
	}
	if update.Confidence != nil {
		c := *update.Confidence
		if math.IsNaN(c) || c < 0 || c > 1 {
			return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidVideo)
		}
	}
	if update.Status != nil && !update.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *update.Status)
	}
	return nil
}

// validateVideo validates a video before insertion.
func validateVideo(video *model.Video) error {
	if video == nil {
		return fmt.Errorf("%w: video", ErrNilParameter)
	}
	if video.Status == "" {
		video.Status = model.StatusNeedsReview
	}
	if !video.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, video.Status)
	}
	if video.Confidence < 0 || video.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidVideo)
	}
	return nil
}
