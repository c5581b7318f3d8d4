// idlwrap checks the interface files of a wrapper generator.
//
// It parses C++-like interface files into a namespace tree, resolves every
// type reference against it and reports names that cannot be found or are
// ambiguous. Checked declarations can be recorded in an index for other tools.
//
// Usage:
//
//	# Check one interface file
//	idlwrap check --file gtsam.i
//
//	# Check a directory, failing on unresolved unqualified names
//	idlwrap check --dir interface/ --strict
//
//	# Look a name up as if written inside a namespace
//	idlwrap resolve Pose2 --file gtsam.i --scope gtsam::noiseModel
//
//	# Print the namespace tree
//	idlwrap tree --file gtsam.i --format json
//
//	# Record declarations and re-check on change
//	idlwrap index --dir interface/ --db build/decls.db
//	idlwrap watch --dir interface/ --metrics-addr :9090
package main

import "os"

func main() {
	os.Exit(Execute())
}
