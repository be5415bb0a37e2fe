// Package batch turns one conversion request into a zip of outputs and a
// per-file result list.
//
// For each upload, in input order, the Orchestrator validates the file,
// streams it to a UUID-named temp path, runs the Converter, and adds the
// output to the archive under "<stem>.<format>". A failing file yields an
// error Result and never stops the rest of the batch. Temp files belong to
// the file's task and are removed when it ends, however it ends.
//
// Files are converted by a bounded pool (Config.Workers). Results are
// reported in input order regardless of completion order, and archive names
// are assigned in input order before any work starts so collision suffixes
// do not depend on scheduling.
//
// Only two failures are fatal: the workspace could not be created
// (ErrWorkspaceSetup) or the archive could not be written (ErrArchive).
// Both are returned together with whatever results were gathered.
package batch
