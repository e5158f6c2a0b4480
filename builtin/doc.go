// Package builtin ships the compiled-in recipe collection. Importing it
// (usually blank) registers every recipe in registry.Default:
//
//	import _ "newsstand/builtin"
//
// Each file declares one publication and registers it from init, so the
// collection grows by adding a file, never by editing a central list.
package builtin
