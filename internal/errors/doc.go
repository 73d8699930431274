// Package errors defines the error taxonomy for the kernel bridge.
//
// Every failure carries a structured kind plus the underlying cause, so
// callers can branch on kind without parsing message text.
package errors
