// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

// Package storytracker opens archived snapshots of web pages and extracts
// the hyperlinks they contain.
package storytracker // import "github.com/wabarc/storytracker"

import (
	"os"

	"github.com/wabarc/logger"
)

func init() {
	debug := os.Getenv("DEBUG")
	if debug == "true" || debug == "1" || debug == "on" {
		logger.EnableDebug()
	}
}
