// Package notifier delivers newly found hearings.
//
// A Notifier receives the hearings a check reported as new. Implementations print
// them, post them to a webhook, or drop a calendar file per hearing into a directory.
package notifier
