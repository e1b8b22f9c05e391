// Package validation checks request payloads before they are sent.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their JSON names:
//
//	type SendMessageRequest struct {
//	    Content string `json:"content" validate:"required"`
//	}
//	err := validation.Validate(req)
//
// Programmatic validation collects field errors fluently:
//
//	err := validation.New().
//	    Required("conversationId", id).
//	    Validate()
//
// Failures are *errors.Error values with code VALIDATION_ERROR and the
// offending fields under Details["fields"].
package validation
