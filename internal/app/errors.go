package app

import "fmt"

// DomainError is an application failure that already knows its HTTP shape:
// status code, stable machine code (NOT_FOUND, EMAIL_EXISTS, ...), and a
// user-facing message. mapError unwraps it ahead of the generic fallbacks.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}
