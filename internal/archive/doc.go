// Package archive assembles the zip returned to clients.
//
// A Builder is created empty per request, receives one entry per converted
// file and is finalized exactly once into an Archive, a seekable reader
// suitable for http.ServeContent. Entries are stored uncompressed since
// video containers are already compressed.
//
// The archive is held in memory, spooled to a file, or starts in memory and
// spills to a file once it outgrows a limit (Mode). After any write error
// the builder refuses further use so a corrupt archive is never returned.
//
// Namer assigns unique entry names up front:
//
//	n := archive.NewNamer()
//	n.Assign("a.webm") // "a.webm"
//	n.Assign("a.webm") // "a_1.webm"
package archive
