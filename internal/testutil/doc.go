// Package testutil provides fixtures shared by the package tests: story files
// written into a temporary directory and deterministic collaborators for the
// rule interpreter.
package testutil
