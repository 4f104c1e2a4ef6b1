// Package api defines the request and response messages of the Splitticket
// RPC services. Messages travel as JSON; money values are decimal strings.
package api
