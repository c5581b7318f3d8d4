// Package watch re-runs a callback when interface files change on disk.
//
// A FileWatcher watches a file or a directory tree through fsnotify. Events
// for files with a configured extension are collected by a Debouncer, and the
// callback runs once with every path that changed after the tree has been
// quiet for the debounce interval. Directories created while watching are
// watched too.
//
//	fw, err := watch.NewFileWatcher(&watch.Config{
//	    Path:             "interface",
//	    DebounceInterval: 100 * time.Millisecond,
//	    Extensions:       []string{".i"},
//	    SkipHidden:       true,
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = fw.Watch(ctx, func(changed []string) error {
//	    return recheck(changed)
//	})
package watch
