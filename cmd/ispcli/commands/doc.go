// Package commands defines the ispcli CLI and wires dependencies for subcommands.
//
// Commands
//
//   - login            Authenticate and persist the session
//   - register         Create a new account
//   - forgot-password  Request a password reset token
//   - reset-password   Exchange a reset token for a new password
//   - whoami           Print the logged-in user and token expiry
//   - logout           Clear the persisted session
//   - dashboard        Interactive package browser with purchase flow
//   - admin            Interactive package management (admin accounts only)
//   - version          Print build information
//
// # Implementation
//
// The root command loads configuration (defaults, optional JSON file,
// command-line flags) and builds the client application graph before any
// subcommand runs, so handlers share one session store, HTTP client and
// catalog state.
package commands
