// Package main is the entry point for the cricstats CLI tool, which ingests
// ball-by-ball cricket datasets and computes per-season performance metrics.
package main

import "cricstats/cmd"

func main() {
	cmd.Execute()
}
