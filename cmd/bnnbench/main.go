// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command bnnbench verifies a gate level binarized neural network classifier
// against a table of test vectors.
//
// Exit status is 0 if all vectors matched, 1 if the verification failed and
// 2 on command or setup errors.
//
package main

import (
	"github.com/db47h/bnnbench/internal/cli"
	"github.com/tebeka/atexit"
)

func main() {
	atexit.Exit(cli.Execute())
}
