/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

The converter's upload, output and temp directories are often network mounts
in hosted deployments. Opening, creating and removing per-request temp files
there can fail transiently with ESTALE; these helpers retry those failures and
pass every other error straight through.

# Usage

	file, err := filesystem.CreateWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}
	defer file.Close()

	// Removing a path that is already gone is not an error.
	_ = filesystem.RemoveWithRetry(path, filesystem.DefaultRetryConfig())

# Retry Behavior

The retry logic implements exponential backoff with the following defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Only NFS stale file handle errors (ESTALE) trigger retries.

# Metrics

Operations are reported to the Observer installed with SetObserver, labeled by
the volume a VolumeResolver maps the path to (uploads, converted, temp).
*/
package filesystem
