// Package core contains the resource pipeline: the hook registry, the pipeline
// compiler, the sequential executor and the default CRUD handlers that run in
// the execute stage. Storage backends and transports depend on this package;
// core must not depend on them.
package core
