// Package dataset loads the tracked time-series files and serves the
// combined table the rest of the dashboard derives from.
//
// This package contains three main components:
//
// Loader: Reads the configured (file, label) pairs, normalizes each file into
// date-sorted rows tagged with its source label, and concatenates them into
// one combined table. Loading is all-or-nothing: any missing or unreadable
// file fails the whole load with a single error.
//
// Table: The explicit table abstraction. Its key is the row date; filtering
// is a pure function over source membership and an inclusive date interval.
//
// Store: The process-lifetime memoization cache for the loader's output.
// The dataset is loaded once at startup and reused on every request; an
// explicit Reload atomically swaps in a fresh snapshot, keeping the previous
// one when the reload fails.
//
// Example usage:
//
//	loader := dataset.NewLoader(cfg.Dataset.Sources, logger)
//	store := dataset.NewStore(loader, logger, metrics)
//	if err := store.Load(ctx); err != nil {
//	    // required input file missing or unreadable
//	}
//
//	snap, _ := store.Dataset()
//	view := snap.Combined.Filter(dataset.Selection{
//	    Sources:  []string{"Kaggle_AAPL"},
//	    Interval: dataset.NewInterval(start, end),
//	})
package dataset
