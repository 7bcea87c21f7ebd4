// Command regexprobe reports how a regex engine treats a pattern.
//
// It reads a query document, {"pattern": ..., "inputs": [...]}, compiles the
// pattern once, searches every input for its leftmost match and prints one
// JSON result document on stdout. Logs go to stderr.
//
//	regexprobe query.json
//	regexprobe query --engine regexp2 --pretty - < query.json
//	regexprobe serve --port 8080
package main

import (
	"fmt"
	"os"

	apperrors "github.com/kbukum/regexprobe/errors"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "regexprobe: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.ExitCode()
	}
	return 1
}
