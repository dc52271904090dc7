// Package translations embeds the Qt Linguist catalogs shipped with the application.
package translations

import "embed"

//go:embed *.ts
var FS embed.FS
