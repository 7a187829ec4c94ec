// Package modules implements the `require("name")` resolver and
// loader: ordered search-directory resolution, a process-wide cache
// keyed by canonical path, and cycle breaking via an Unknown
// placeholder for modules still being checked.
package modules

import "github.com/tylua/tylua/internal/typesystem"

// Module is one resolved, loaded require target.
type Module struct {
	Path       string // canonical (absolute) file path
	Source     string
	ReturnType typesystem.Type // inferred top-level return type, once checked
	InProgress bool            // true while a nested Check is running (cycle guard)
}
