package apperror

// AppError is a custom error type that includes an HTTP status code and a machine readable reason.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Reason  string // Stable error code for clients (e.g., "slot_conflict")
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)

	origin *AppError // the sentinel a WithMessage copy was made from
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same sentinel, so errors.Is matches
// copies produced by WithMessage against the original variable.
// Distinct sentinels never match, even when they share Code and Reason.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.root() == t.root()
}

func (e *AppError) root() *AppError {
	if e.origin != nil {
		return e.origin
	}
	return e
}

// New creates a new AppError with a status code, reason and message.
func New(code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

// WithMessage returns a copy of e carrying a more specific message.
// The copy still matches e with errors.Is.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Reason:  e.Reason,
		Message: message,
		Err:     e.Err,
		origin:  e.root(),
	}
}
