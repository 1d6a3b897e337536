// Package httputil provides HTTP handler utilities for the Warden API:
// consistent envelope responses, JSON decoding, and query/path parameter
// parsing.
//
// Every API response uses the same envelope shape:
//
//	{"success": bool, "data": ..., "total": n, "page": n, "limit": n, "message": "..."}
//
// where total/page/limit appear only on collection responses and message
// only on errors (or informational successes like login).
package httputil
