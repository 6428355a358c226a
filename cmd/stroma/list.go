package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stromabio/stroma/pkg/core"
)

var (
	listJSON  bool
	filterTag string
)

var listCmd = &cobra.Command{
	Use:   "list <content-type>",
	Short: "List the merged record view for a content type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, err := newService(args[0])
		if err != nil {
			fatal("Error initializing stroma", err)
		}
		defer service.Close()

		records, err := service.Records(context.Background())
		if err != nil {
			fatal("Error listing records", err)
		}

		// Filter
		var filtered []core.Record
		for _, rec := range records {
			if filterTag != "" {
				hasTag := false
				for _, t := range rec.Tags {
					if t == filterTag {
						hasTag = true
						break
					}
				}
				if !hasTag {
					continue
				}
			}
			filtered = append(filtered, rec)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, rec := range filtered {
			fmt.Printf("%d  %s  %s\n", rec.ID, rec.Slug, rec.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter records by tag")
}
