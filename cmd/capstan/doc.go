// Package main hosts the capstan CLI entrypoint and command graph.
//
// The command tree submits videos to the remote captioning backend,
// streams job progress, inspects finished subtitle files, and manages
// configuration scaffolding. Configuration resolution and logger setup
// are centralized in commandContext so subcommands stay focused on user
// experience.
//
// Keep this package lean: put new behavior in the internal packages
// first, then surface it here through dedicated commands or flags.
package main
