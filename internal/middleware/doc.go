// Package middleware provides HTTP middleware for the m3u-parser service.
//
// It includes:
//   - Request logging in W3C Extended Log Format, with a #Fields header
//   - Prometheus request metrics labelled by route template
//
// Both middlewares share one status recorder per request. The recorder
// unwraps to the original writer, so http.ResponseController flushes and
// write deadlines reach the connection.
package middleware
