// Package resolver maps named resources (plain files, localization files and
// density-variant images) to concrete paths by searching an ordered list of
// containers. The container list is probed once in New and never changes;
// every lookup is a read-only existence check, so a Resolver can be shared
// freely between goroutines.
//
// Resolution is total: each call yields either a found Result or NotFound.
// A missing resource, or one whose container cannot be read, is NotFound and
// never an error.
package resolver
