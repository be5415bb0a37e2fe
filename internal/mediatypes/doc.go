// Package mediatypes provides shared type definitions and utilities for video
// file handling across the video-converter application.
//
// This package exists as a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains primitive types, constants,
// and pure utility functions with no external dependencies beyond the standard library.
//
// # Formats
//
// The Format type names a target container. Use ParseFormat to normalize
// client input:
//
//	format, ok := mediatypes.ParseFormat(r.FormValue("format"))
//	if !ok {
//	    // reject the request
//	}
//
// # Source Files
//
// SourceExtensions lists the upload extensions accepted for conversion. Ext and
// Stem split client-supplied names, ignoring any directory components:
//
//	mediatypes.Ext("Holiday.MKV")  // ".mkv"
//	mediatypes.Stem("Holiday.MKV") // "Holiday"
//
// # MIME Types
//
// Use GetMimeType to get the MIME type for an extension, or Format.MimeType for
// the type an output container is expected to sniff as.
package mediatypes
