// Package build assembles a site definition: it validates the declared
// configuration, loads and parses every content collection, checks sidebar
// references against the docs collection, and hands the result to emitters.
// All execution paths (CLI commands, watch mode, tests) route through Assembler.
package build
