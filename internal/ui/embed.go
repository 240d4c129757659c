package ui

import "embed"

// Dist embeds the static front end: index.html plus the script and
// stylesheet it loads from /assets/.
//
//go:embed all:dist
var Dist embed.FS
