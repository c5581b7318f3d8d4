// Package recorder flattens parsed interface modules into index records and
// writes them to an index.Storage backend.
//
// # Basic Usage
//
//	rec := recorder.NewRecorder(store, nil)
//	run, err := rec.Record(ctx, module)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("indexed", run.Declarations, "declarations as run", run.ID)
//
// Every call produces a new Run with a random UUID. Records carry the
// qualified name of their declaration ("gtsam::noiseModel::Base") and the path
// of the enclosing namespace, so the tree can be queried without re-parsing.
package recorder
