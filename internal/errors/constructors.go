package errors

// Convenience constructors for the categories raised by overlay and packaging.

// Validation reports a malformed identifier, template or option.
func Validation(field, reason string) *Error {
	return New(CategoryValidation, SeverityFatal, reason).
		WithContext("field", field)
}

// Parse reports a malformed front matter block in path.
func Parse(path string, cause error) *Error {
	return Wrap(cause, CategoryParse, SeverityFatal, "malformed front matter").
		WithContext("path", path)
}

// NotFound reports a missing required directory or file.
func NotFound(what, path string) *Error {
	return New(CategoryNotFound, SeverityFatal, what+" not found").
		WithContext("path", path)
}

// IO reports a read or write failure during enumeration or archive writing.
func IO(operation, path string, cause error) *Error {
	return Wrap(cause, CategoryIO, SeverityFatal, operation+" failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// ConfigInvalid reports a configuration file that could not be loaded.
func ConfigInvalid(path string, cause error) *Error {
	return Wrap(cause, CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("path", path)
}

// InternalError wraps an unexpected failure.
func InternalError(message string, cause error) *Error {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
