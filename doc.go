/*
Package buildsync provides CLI tooling to publish completed
multi-architecture builds to an object store.

The primary goal of buildsync is to make publication idempotent and
resumable: a build's artifacts, metadata and index can be re-published
at any time, and only what is missing remotely gets uploaded.
*/
package buildsync
