// Package http exposes a session.Manager as a JSON API on a chi router.
//
// Unresolved answers are not errors: POST /sessions/{id}/answer replies 200
// with "resolved": false. Unknown sessions reply 404.
package http
