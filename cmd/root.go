// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wabarc/logger"
	"github.com/wabarc/storytracker"
)

// NewRootCmd returns the storytracker command with its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storytracker",
		Short:         "Archive web pages and analyse the snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	linksCmd := NewLinksCmd()
	linksCmd.Use = "links [path ...]"
	root.AddCommand(linksCmd, newArchiveCmd(), newListCmd())

	return root
}

func newArchiveCmd() *cobra.Command {
	arc := storytracker.New()

	c := &cobra.Command{
		Use:   "archive url [url ...]",
		Short: "Fetch pages and store them as archives",
		Example: `  storytracker archive https://www.eff.org/ https://www.fsf.org/
  storytracker archive --dir archives --compress=false https://example.org/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			for _, link := range args {
				path, err := arc.Archive(c.Context(), link)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.OutOrStdout(), path)
			}
			return nil
		},
	}

	flags := c.Flags()
	flags.StringVarP(&arc.Dir, "dir", "d", arc.Dir, "directory archives are written to")
	flags.BoolVar(&arc.Compress, "compress", arc.Compress, "gzip archives")
	flags.DurationVar(&arc.Timeout, "timeout", arc.Timeout, "timeout per request")
	flags.IntVar(&arc.Retries, "retries", arc.Retries, "retries for failed fetches")
	flags.StringVar(&arc.UserAgent, "user-agent", arc.UserAgent, "User-Agent header sent with requests")

	return c
}

var listHeader = []string{"path", "archive_url", "archive_timestamp", "content_type", "title", "links"}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path ...]",
		Short: "List archives with their title and link count",
		Args:  cobra.ArbitraryArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cw := csv.NewWriter(c.OutOrStdout())
			if err := cw.Write(listHeader); err != nil {
				return errors.WithStack(err)
			}
			for _, path := range args {
				history, err := open(path)
				if err != nil {
					return err
				}
				for _, u := range history {
					row, err := listRow(u)
					if err != nil {
						return err
					}
					if err := cw.Write(row); err != nil {
						return errors.WithStack(err)
					}
				}
			}
			cw.Flush()
			return errors.WithStack(cw.Error())
		},
	}
}

func listRow(u *storytracker.URL) ([]string, error) {
	links, err := u.Hyperlinks()
	if err != nil {
		return nil, err
	}

	var title string
	if article, err := u.Article(); err != nil {
		logger.Debug("[storytracker] no article for %s: %v", u.URL, err)
	} else {
		title = article.Title
	}

	return []string{
		u.Path,
		u.URL,
		u.Timestamp.UTC().Format(storytracker.TimestampLayout),
		u.ContentType(),
		title,
		strconv.Itoa(len(links)),
	}, nil
}
