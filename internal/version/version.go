// Package version holds the tool version stamped into builds.
package version

// Current is the semantic version of the tool, without a "v" prefix.
const Current = "0.1.0"
