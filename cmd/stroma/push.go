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

var pushCmd = &cobra.Command{
	Use:   "push <content-type>",
	Short: "Upload the locally cached snapshot to the remote store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ct := args[0]
		if endpoint == "" {
			fatal("Error pushing snapshot", fmt.Errorf("no --endpoint configured"))
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
		snap, err := cache.Read()
		if err != nil {
			fatal("Error reading local cache", err)
		}
		if snap == nil {
			fatal("Error pushing snapshot", fmt.Errorf("no local cache for content type %q", ct))
		}

		client := webstore.NewClient(webstore.Config{
			BaseURL:     endpoint,
			ContentType: ct,
			Token:       token,
			Logger:      slog.Default(),
		})
		if err := client.Push(context.Background(), *snap); err != nil {
			fatal("Error pushing snapshot", err)
		}

		fmt.Printf("pushed %s: version=%s\n", ct, snap.Version)
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
