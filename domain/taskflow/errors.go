package taskflow

import "errors"

var (
	// ErrBackendUnavailable indicates neither storage backend could be opened.
	ErrBackendUnavailable = errors.New("no storage backend available")
	// ErrTransactionFailed indicates a single storage operation failed.
	ErrTransactionFailed = errors.New("storage transaction failed")
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrMalformedImportDocument indicates an interchange document failed validation.
	ErrMalformedImportDocument = errors.New("malformed import document")
	// ErrUnknownKind indicates an entity kind outside the four known collections.
	ErrUnknownKind = errors.New("unknown entity kind")
	// ErrMissingID indicates an update was attempted on an entity without an id.
	ErrMissingID = errors.New("entity id is required")
	// ErrInvalidDate indicates a date string is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidInput indicates a request failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNothingToUndo indicates the undo buffer is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrUndoExpired indicates the undo window has elapsed.
	ErrUndoExpired = errors.New("undo window expired")
)
