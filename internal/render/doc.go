// Package render drives the external CAD renderer. For every expanded
// configuration it builds a command line, prints a progress line and runs the
// renderer through an Invoker, collecting one Result per configuration.
//
// By default renders run one at a time and a failing render is logged and
// skipped. Options enable fail-fast, a bounded number of parallel workers and
// a dry run that prints commands without executing them.
package render
