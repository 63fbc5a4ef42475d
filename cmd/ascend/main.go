// Package main is the single-binary entrypoint for Ascend, the gamified
// self-improvement progression engine.
package main

import "github.com/ascend-app/ascend/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
