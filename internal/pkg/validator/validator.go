package validator

import (
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Required appends a "<field> is required" error when value is blank.
func (v *ValidationErrors) Required(field, value string) {
	if IsEmpty(value) {
		*v = append(*v, ValidationError{
			Field:   field,
			Message: field + " is required",
		})
	}
}

// Err returns nil when no error was collected, so callers can `return errs.Err()`.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination applies page/limit defaults and records out-of-range values.
func (v *ValidationErrors) Pagination(page, limit *int) {
	if *page < 0 {
		*v = append(*v, ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		*v = append(*v, ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if *limit == 0 {
		*limit = DefaultPageLimit
	}
	if *limit > MaxPageLimit {
		*v = append(*v, ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}
}

// OptionalDate normalizes a non-blank date filter in place.
func (v *ValidationErrors) OptionalDate(field string, value *string) {
	if value == nil || IsEmpty(*value) {
		return
	}
	normalized, err := NormalizeDate(*value)
	if err != nil {
		*v = append(*v, ValidationError{Field: field, Message: field + " must be in YYYY-MM-DD format"})
		return
	}
	*value = normalized
}

// TotalPages is the number of pages of size limit needed for total items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
