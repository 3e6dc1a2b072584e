// Package templates embeds the starter manifest written by "weft init".
package templates

import "embed"

//go:embed weft.yaml
var FS embed.FS
