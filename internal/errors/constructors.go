package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file is invalid").
		WithContext("path", path)
}

func ConfigRequired(field string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

// Validation errors

// ValidationFailed reports a site definition that failed one or more checks.
// issues is the number of error-level findings.
func ValidationFailed(issues int, first string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "site configuration failed validation").
		WithContext("issues", issues).
		WithContext("first", first)
}

// Collection errors

func CollectionNotFound(name string) *SiteError {
	return New(CategoryCollection, SeverityFatal, "collection is not declared").
		WithContext("collection", name)
}

func LoaderFailed(name string, cause error) *SiteError {
	return Wrap(cause, CategoryCollection, SeverityFatal, "collection loader failed").
		WithContext("collection", name)
}

// Output errors

func RenderFailed(format string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "rendering failed").
		WithContext("format", format)
}

func FileSystemError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

// Git errors

func GitFailed(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryGit, SeverityError, "git operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
