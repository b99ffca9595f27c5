package main

import (
	"context"
	"fmt"
	"slices"

	"sheetview/internal/config"
	"sheetview/internal/export"
	"sheetview/internal/gateway"
	"sheetview/internal/util/logx"
	"sheetview/internal/view"
)

// runBatch drives the same view state the TUI uses, without a terminal:
// list, select the dataset, apply the requested sort and export the rows.
func runBatch(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error {
	t := view.New()
	if err := t.Initialize(ctx, gw); err != nil {
		return fmt.Errorf("%s: %w", view.ListingFailureMessage(err), err)
	}
	if !slices.Contains(t.Snapshot().Listing, cfg.Dataset) {
		logx.Warnf("batch: %q is not in the listing; fetching anyway", cfg.Dataset)
	}
	if err := t.Select(ctx, gw, cfg.Dataset); err != nil {
		return fmt.Errorf("%s: %w", view.LoadFailureMessage(cfg.Dataset, err), err)
	}
	if cfg.SortColumn != "" {
		if !t.ToggleSort(cfg.SortColumn) {
			return fmt.Errorf("dataset %s has no column %q", cfg.Dataset, cfg.SortColumn)
		}
		if cfg.SortDesc {
			t.ToggleSort(cfg.SortColumn)
		}
	}
	snap := t.Snapshot()
	if err := export.WriteFile(cfg.ExportOut, cfg.ExportFormat, cfg.Compression, snap.Columns, snap.Rows); err != nil {
		return fmt.Errorf("export %s: %w", cfg.ExportOut, err)
	}
	logx.Infof("batch: wrote %d rows of %s to %s", len(snap.Rows), cfg.Dataset, cfg.ExportOut)
	return nil
}
