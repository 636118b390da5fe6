package errors

import (
	"fmt"
	"go/token"
)

// Definition reports a construct in the input interface that cannot be enumized.
func Definition(pos token.Position, format string, args ...interface{}) *BaseError {
	return Newf(DefinitionErrorCode, format, args...).WithLocation(LocationOf(pos))
}

// Configuration reports an invalid or inconsistent option in the directive text.
func Configuration(option string, format string, args ...interface{}) *BaseError {
	return Newf(ConfigurationErrorCode, format, args...).WithContext("option", option)
}

// Mismatch reports a requested artifact whose receiver access cannot serve
// every method of the interface.
func Mismatch(artifact, convention string, format string, args ...interface{}) *BaseError {
	return Newf(ConventionMismatchErrorCode, format, args...).
		WithContext("artifact", artifact).
		WithContext("convention", convention)
}

// Generation wraps failures while rendering the output file.
func Generation(item string, cause error) *BaseError {
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", item), cause)
}

// FileSystem wraps file system related errors
func FileSystem(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}
