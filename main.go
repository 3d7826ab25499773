// Copyright
// SPDX-License-Identifier: MIT
// pullsheet: full-screen terminal overlay with pull-to-dismiss
package main

import (
	"os"

	"pullsheet/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
