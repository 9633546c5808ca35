// Package template provides the project preset catalog. Presets are
// defined in CUE and describe the starting shape of a project: output
// settings, the initial track stack with placement rules, and ready
// speakers. A built-in catalog compiled from embedded CUE source backs
// the CLI when no preset directory is given.
package template
