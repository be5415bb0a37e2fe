// Package streaming delivers large response bodies without a fixed server
// write timeout.
//
// The servers run with WriteTimeout disabled because a multi-gigabyte
// archive can legitimately take longer than any constant limit. [Writer]
// replaces that limit with an idle deadline: before each chunk it extends
// the connection's write deadline by IdleTimeout through
// http.ResponseController. A client that keeps reading is never cut off;
// one that stops is disconnected and the write fails with an error
// matching [ErrWriteTimeout].
//
//	sw := streaming.NewWriter(w, streaming.DefaultConfig())
//	defer sw.Close()
//	http.ServeContent(sw, r, name, modTime, content)
//
// Writers that do not support deadlines, such as httptest recorders, are
// written to normally.
package streaming
