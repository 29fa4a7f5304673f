// Package preview implements the HTTP server behind "mini serve".
//
// Routes:
//
//	GET  /healthz   liveness
//	POST /create    builds an element spec (raw body or form field "spec")
//	                and answers with its outer HTML
//	GET  /ws/fade   WebSocket; ?spec=&dir=in|out&speed= runs a fade on the
//	                built element and streams each style change as JSON
//	GET  /metrics   Prometheus metrics (path from mini.json)
//
// Every request is traced with OpenTelemetry and counted by route and
// status code.
package preview
