package domain

import "fmt"

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

// BusinessRuleError reports a well-formed request rejected by a business
// rule: inactive user, unavailable inventory, declined payment.
type BusinessRuleError struct {
	Reason string
}

func (e *BusinessRuleError) Error() string {
	return e.Reason
}

// RemoteCallError reports a failed or timed-out call to another service.
type RemoteCallError struct {
	Service string
	Err     error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}
