package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cadence/internal/logging"
	"cadence/internal/trackcache"
)

func newCacheCommand(cmdCtx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Resolved-track cache utilities",
	}

	cacheCmd.AddCommand(newCacheListCommand(cmdCtx))
	cacheCmd.AddCommand(newCacheClearCommand(cmdCtx))

	return cacheCmd
}

func (c *commandContext) openCache() (*trackcache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return trackcache.New(cfg.Cache.Path, cfg.CacheDuration(), logging.NewNop()), nil
}

func newCacheListCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached track resolutions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := cmdCtx.openCache()
			if err != nil {
				return err
			}

			entries := cache.List()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}

			rows := make([][3]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, [3]string{
					entry.SongName,
					entry.ArtistName,
					humanize.Time(time.Unix(entry.Timestamp, 0)),
				})
			}

			fmt.Fprintln(out, renderCacheTable(rows))
			fmt.Fprintf(out, "%d cached track(s)\n", len(entries))
			return nil
		},
	}
}

func newCacheClearCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached track resolutions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := cmdCtx.openCache()
			if err != nil {
				return err
			}

			count := cache.Count()
			cache.Clear()
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached track(s)\n", count)
			return nil
		},
	}
}
