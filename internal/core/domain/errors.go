package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrClientNotFound     = errors.New("client not found")
	ErrMailTaken          = errors.New("mail already registered")
	ErrClientInactive     = errors.New("client already inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrRoleNotFound       = errors.New("role not found")
	ErrDefaultRoleMissing = errors.New("default role is not configured")
)

// Violation names a single failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned when input fails shape or presence checks.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Registration stages after the client row is committed.
const (
	StageProvisionUser = "provision_user"
	StagePublishEvent  = "publish_event"
)

// PartialSuccessError reports a failure that happened after the client was
// durably created. The client is not rolled back.
type PartialSuccessError struct {
	Stage string
	Err   error
}

func (e *PartialSuccessError) Error() string {
	return fmt.Sprintf("client created but %s failed: %v", e.Stage, e.Err)
}

func (e *PartialSuccessError) Unwrap() error { return e.Err }
