// Command ltm learns latent tree models from discrete CSV data.
//
// Usage:
//
//	ltm cluster --data survey.csv [--config ltm.yaml] [--seed N]
//	ltm search  --data survey.csv [--iterations N]
//	ltm stats   --data survey.csv [--parallel]
//
// Logs are JSON records on stderr; results go to stdout.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
