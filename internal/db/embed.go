package db

import "embed"

// EmbedMigrations holds the schema migrations compiled into the binary, so
// `dealdesk migrate` needs no files on disk.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
