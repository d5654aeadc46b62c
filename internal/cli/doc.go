// Package cli implements the command-line interface for court-calendar.
//
// The root command carries the attorney search flags shared by every subcommand.
// search prints matching hearings, ics and csv export them, check reports hearings
// added since the previous run, watch runs check on a schedule and serve starts the
// HTTP API. Settings come from the config package and are overridden by flags.
package cli
