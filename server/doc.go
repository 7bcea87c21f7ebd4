// Package server exposes the probe over HTTP using Gin, with HTTP/2
// cleartext (h2c) on the same port.
//
// Routes:
//
//	POST /v1/query?engine=<name>&pretty=true   evaluate one query document
//	GET  /v1/engines                           list registered engines
//	GET  /health                               liveness
//	GET  /info                                 build information
//
// A successful query returns the bare result document, exactly as the CLI
// prints it. Failures use the error envelope from the errors package:
// MALFORMED_QUERY and UNSUPPORTED_ENGINE map to 400, TIMEOUT to 504.
package server
