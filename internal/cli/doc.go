// Package cli defines the Cobra command tree for uniflow. The root command
// starts the terminal interface; each other file registers one subcommand.
// Commands only load configuration and format output, and delegate the work
// to the internal packages.
package cli
