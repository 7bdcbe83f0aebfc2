// Package units provides built-in processing-unit count providers.
//
// The supervisor launches one worker per processing unit. The package includes:
//
//   - Host: Count of logical CPUs usable by the current process
//   - Static: Fixed count, for tests and explicit overrides
//
// Custom providers can be implemented by satisfying the types.UnitCounter interface.
package units
