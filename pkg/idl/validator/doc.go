// Package validator checks a parsed interface module.
//
// Two passes run in sequence:
//
// 1. Structural validation: empty names, duplicate template parameters,
// duplicate enumerators and duplicate argument names.
//
// 2. Reference validation: every type reference in the module (base classes,
// return and argument types, properties, variable types, typedef templates and
// their template arguments) is resolved against the module's namespace tree.
//
// # Basic Usage
//
//	module, err := parser.NewParser().Parse(ctx, "gtsam.i")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v := validator.NewValidator(validator.Options{Strict: true, ScopeLookup: true})
//	if err := v.Validate(module); err != nil {
//	    if errList, ok := err.(*errors.ErrorList); ok {
//	        for _, e := range errList.Errors {
//	            fmt.Println(e.Error())
//	        }
//	    }
//	}
//
// # Resolution Rules
//
// Qualified references ("gtsam::Pose3") are resolved from the top-level
// namespace. Unqualified references are resolved from the namespace that
// contains the referring declaration, then from each enclosing namespace,
// unless Options.ScopeLookup is false. Template parameters and external types
// are never resolved.
//
// An ambiguous reference is always an error. A reference that names nothing is
// an error when it is qualified, and also when it is unqualified in strict mode.
package validator
