// Package migrations embeds the goose SQL migrations so the server binary
// and the test helper can apply them without a checkout of this repo.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
