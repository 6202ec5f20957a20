//go:build release

package engine

const debugChecks = false
