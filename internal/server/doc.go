// Package server assembles the conversion service and runs it.
//
// [New] builds the transcoder, validator, memory gate, batch orchestrator
// and HTTP handlers over a workspace provider, registers the routes and
// applies the middleware chain:
//
//	CORS -> RequestID -> Logger -> Metrics -> router
//
// Routes:
//
//	POST /api/convert               batch conversion
//	GET  /health, /healthz          detailed health
//	GET  /livez, /readyz            probes
//	GET  /version                   build info and FFmpeg version
//	GET  /metrics                   on METRICS_PORT, or here when it equals PORT
//
// [Server.Run] serves the application and metrics listeners together with
// the stale temp sweeper, the metrics collector and the memory monitor.
// When its context ends it stops accepting requests, waits up to 30
// seconds for in-flight batches, then kills any FFmpeg still running.
//
// The standalone and hosted binaries differ only in the provider they
// pass: fixed upload/converted directories or a temp directory per request.
package server
