// Package facebook provides a minimal Facebook Graph API client for photo
// publishing. It supports three operations: publishing a single photo
// immediately, staging a photo unpublished (returning its media reference),
// and composing one feed post from up to four staged references.
//
// Every method performs exactly one outbound HTTP request. Failures are
// returned as typed *Error values; the client never retries.
package facebook
