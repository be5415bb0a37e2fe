// Command convert-function is the hosted variant of the video converter.
//
// It serves the same API as the standalone server but gives every request
// its own directory under TEMP_DIR (default: the OS temp directory) and
// removes it, with everything inside, when the response has been written.
// Nothing is shared between requests on disk, which suits platforms that
// run the service as a short-lived function or on ephemeral storage.
//
// Usage:
//
//	TEMP_DIR=/tmp/convert PORT=8080 convert-function
//
// Configuration is read the same way as the standalone server; see
// package startup for the full list of environment variables.
package main
