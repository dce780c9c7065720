// Package render writes an assembled site in the formats the Astro build
// consumes (astro.config.mjs and src/content.config.ts) and as plain JSON or
// YAML snapshots of the site definition.
package render
