// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/carlmjohnson/exitcode"
	"github.com/wabarc/storytracker/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx, cmd.NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitcode.Exit(err)
}
