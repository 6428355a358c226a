package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stromabio/stroma"
	"github.com/stromabio/stroma/pkg/adapters/diskcache"
	"github.com/stromabio/stroma/pkg/adapters/webstore"
)

var pullCmd = &cobra.Command{
	Use:   "pull <content-type>",
	Short: "Fetch the remote snapshot and store it in the local cache",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ct := args[0]
		if endpoint == "" {
			fatal("Error pulling snapshot", fmt.Errorf("no --endpoint configured"))
		}

		client := webstore.NewClient(webstore.Config{
			BaseURL:     endpoint,
			ContentType: ct,
			Token:       token,
			Logger:      slog.Default(),
		})
		snap, err := client.Fetch(context.Background())
		if err != nil {
			fatal("Error fetching remote snapshot", err)
		}

		dir := cacheDir
		if dir == "" {
			dir = stroma.DefaultCacheDir()
		}
		cache := diskcache.New(diskcache.Config{
			Dir:         dir,
			ContentType: ct,
			Logger:      slog.Default(),
		})
		if err := cache.Write(*snap); err != nil {
			fatal("Error writing local cache", err)
		}

		fmt.Printf("pulled %s: version=%s saved=%d hidden=%d overrides=%d\n",
			ct, snap.Version, len(snap.Saved), len(snap.Hidden), len(snap.Overrides))
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
