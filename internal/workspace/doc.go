// Package workspace owns the on-disk working area where capstan keeps
// exported captions, downloaded videos, and the job ledger database.
//
// Open ensures the configured directories exist and claims an advisory
// lock so two capstan processes never interleave writes in the same
// workspace. Naming helpers derive export file names from the video
// title plus a UTC timestamp, and FreeSpace backs the disk headroom
// check that runs before video downloads.
package workspace
