// Package middleware provides HTTP middleware and a stack to compose them.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Stack is an ordered list of middleware applied outermost-first.
type Stack []Middleware

// Apply wraps handler with the stack; the first middleware runs first.
func (s Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s) - 1; i >= 0; i-- {
		handler = s[i](handler)
	}
	return handler
}
