// Package sanitizer normalizes hotel input before validation and storage.
//
// All functions are idempotent: applying them twice gives the same result as
// applying them once. Input that cannot be normalized is returned trimmed
// rather than rejected, leaving rejection to the validators.
package sanitizer
