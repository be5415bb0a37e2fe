// Package validation checks conversion uploads and request parameters before
// any work is done.
//
// Request-level parameters (output format and quality tier) are validated
// once per request with go-playground/validator; a failure rejects the whole
// request. Per-file checks (name, extension, declared size) reject only the
// offending file.
//
// Every failure is one of the exported sentinel errors, whose text is the
// message reported to clients:
//
//	if err := v.ValidateUpload(name, size); errors.Is(err, validation.ErrFileTooLarge) {
//	    // record "File too large" for this file
//	}
package validation
