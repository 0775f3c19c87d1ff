package logging

import "log/slog"

// Common field names for consistent logging.
const (
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldRole      = "role"
	FieldProfile   = "profile"
	FieldBackend   = "backend"
)

// Operation returns a slog attribute naming the remote operation.
func Operation(name string) slog.Attr {
	return slog.String(FieldOperation, name)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// RequestID returns a slog attribute for the request ID.
func RequestID(id string) slog.Attr {
	return slog.String(FieldRequestID, id)
}

// UserID returns a slog attribute for the user ID.
func UserID(id int64) slog.Attr {
	return slog.Int64(FieldUserID, id)
}

// Role returns a slog attribute for a session role.
func Role(role string) slog.Attr {
	return slog.String(FieldRole, role)
}

// Profile returns a slog attribute for the CLI profile.
func Profile(name string) slog.Attr {
	return slog.String(FieldProfile, name)
}

// Backend returns a slog attribute for a storage backend name.
func Backend(name string) slog.Attr {
	return slog.String(FieldBackend, name)
}
