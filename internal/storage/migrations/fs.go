// Package migrations embeds the credits_users schema for every supported
// dialect. Files follow golang-migrate naming.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
