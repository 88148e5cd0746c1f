package services

import "fmt"

// ValidationError covers caller-fixable input problems: malformed fields,
// unknown product or variant references, empty carts. Controllers map it to
// a 422 with the field map when present.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

func validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the variant that could not be reserved so the
// buyer can adjust their cart ("only N left"). It is produced exclusively by
// the checkout transaction, never by advisory reads.
type InsufficientStockError struct {
	VariantID uint
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.SKU, e.Requested, e.Available)
}

// InvalidTransitionError reports an illegal order status change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}

// PersistenceError wraps infrastructure failures (transaction aborts, lost
// connections, storage-layer timeouts). Retryable by the caller; the outcome
// of a timed-out commit is ambiguous.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
