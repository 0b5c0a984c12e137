// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wabarc/storytracker"
)

// hyperlinkWriter renders an archive's hyperlinks as CSV.
type hyperlinkWriter interface {
	WriteHyperlinksCSV(w io.Writer) error
}

// Execute runs c with args and returns its failure, if any. The entry
// points hand the error to exitcode.Exit.
func Execute(ctx context.Context, c *cobra.Command, args []string, stdout, stderr io.Writer) error {
	if args == nil {
		args = []string{}
	}
	c.SetArgs(args)
	c.SetOut(stdout)
	c.SetErr(stderr)

	return c.ExecuteContext(ctx)
}

// NewLinksCmd returns the command writing the hyperlinks of every archive
// named by its arguments to stdout as CSV.
func NewLinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storytracker-links [path ...]",
		Short: "Extract hyperlinks from archived pages as CSV",
		Long: `Extract hyperlinks from archived pages as CSV.

Each path is either an archive file or a directory of archives.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			for _, path := range args {
				if err := links(out, path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func links(w io.Writer, path string) error {
	history, err := open(path)
	if err != nil {
		return err
	}
	for _, u := range history {
		if err := flush(w, u); err != nil {
			return err
		}
	}
	return nil
}

func flush(w io.Writer, hw hyperlinkWriter) error {
	var buf bytes.Buffer
	if err := hw.WriteHyperlinksCSV(&buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return errors.WithStack(err)
}

// open returns the archives in a directory, or the single archive at path.
func open(path string) (storytracker.History, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return storytracker.OpenArchiveDirectory(path)
	}
	u, err := storytracker.OpenArchiveFilepath(path)
	if err != nil {
		return nil, err
	}
	return storytracker.History{u}, nil
}
