package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a request failure. Every handler reports failures through
// one of these kinds; respondError is the only place that turns a kind into
// an HTTP status and a JSON body.
type Kind int

const (
	// KindValidation is missing or malformed input.
	KindValidation Kind = iota
	// KindConflict is a duplicate unique field.
	KindConflict
	// KindTokenMissing is a protected route hit without credentials.
	KindTokenMissing
	// KindUnauthorized is invalid credentials or a bad token.
	KindUnauthorized
	// KindInternal is a persistence or external-service failure.
	KindInternal
)

var statusByKind = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindConflict:     http.StatusBadRequest,
	KindTokenMissing: http.StatusForbidden,
	KindUnauthorized: http.StatusUnauthorized,
	KindInternal:     http.StatusInternalServerError,
}

// Error carries the client-facing message plus the wrapped cause, which is
// logged server-side and never leaked to the response.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func conflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func tokenMissingError(message string) *Error {
	return &Error{Kind: KindTokenMissing, Message: message}
}

func unauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func internalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// respondError writes the uniform {"error": msg} body for a typed failure.
// Unknown error values become a bare 500.
func respondError(c *gin.Context, err error) {
	apiErr, ok := err.(*Error)
	if !ok {
		log.Printf("unclassified error on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if apiErr.Err != nil {
		log.Printf("%s: %s: %v", c.FullPath(), apiErr.Message, apiErr.Err)
	}
	c.JSON(statusByKind[apiErr.Kind], gin.H{"error": apiErr.Message})
}
