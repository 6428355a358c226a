package main

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/stromabio/stroma"
)

//go:embed seeds/*.yaml
var seedFS embed.FS

// seedsFor loads the embedded seed set for one content type.
func seedsFor(contentType string) ([]stroma.Record, error) {
	records, err := stroma.LoadSeedsGlob(seedFS, "seeds/"+contentType+".yaml")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no embedded seeds for content type %q", contentType)
	}
	return records, nil
}

// newService wires a content service from the persistent flags.
func newService(contentType string) (*stroma.Service, error) {
	seeds, err := seedsFor(contentType)
	if err != nil {
		return nil, err
	}

	opts := []stroma.Option{
		stroma.WithLogger(slog.Default()),
	}
	if endpoint != "" {
		opts = append(opts, stroma.WithEndpoint(endpoint, token))
	}
	dir := cacheDir
	if dir == "" {
		dir = stroma.DefaultCacheDir()
	}
	opts = append(opts, stroma.WithCacheDir(dir))

	return stroma.New(contentType, seeds, opts...)
}
