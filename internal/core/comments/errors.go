package comments

import "errors"

var (
	// ErrPostNotFound indicates the commented post doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrContentEmpty indicates comment text is empty
	ErrContentEmpty = errors.New("comment text is required")

	// ErrContentTooLong indicates comment text exceeds MaxCommentLength characters
	ErrContentTooLong = errors.New("comment text exceeds 10000 characters")

	// ErrNotAuthenticated indicates an anonymous visitor tried to comment
	ErrNotAuthenticated = errors.New("login required to comment")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentEmpty) ||
		errors.Is(err, ErrContentTooLong)
}
