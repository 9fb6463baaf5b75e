// Package config defines configuration for the memrun CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (MEMRUN_ prefix)
//   - YAML configuration file
//
// Precedence is flags over environment over file over defaults; merging
// is the caller's job via [Config.Merge].
//
// # Structure
//
//	type Config struct {
//	    Bucket      string // gocloud bucket URL
//	    Object      string // object key within the bucket
//	    Placeholder string // token replaced with the memory file path
//	    ChunkSize   int64  // 0 = derived from object size
//	    Concurrency int    // 0 = derived from object size
//	    Progress    bool
//	}
package config
