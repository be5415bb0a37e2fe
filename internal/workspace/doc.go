// Package workspace owns the temporary storage used while a batch is converted.
//
// A Provider hands out one Workspace per request. Two providers exist:
//
//   - Dirs uses fixed, pre-configured upload and output directories and is
//     used by the standalone server.
//   - ProcessTemp creates a private directory per request under the process
//     temp root and removes it on Release; the hosted entry point uses it.
//
// Every temp path is named by a random UUID plus the relevant extension, so
// concurrent files and requests never collide. The Sweeper removes files a
// crashed process may have left behind.
package workspace
