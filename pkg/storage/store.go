// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
)

// PutSettings carries the transport metadata attached to an uploaded object.
//
// ContentEncoding and ContentDisposition are only set for objects rewritten
// by the publication pipeline; the other fields apply to every upload.
type PutSettings struct {
	ContentType        string
	CacheControl       string
	ACL                string
	ContentEncoding    string
	ContentDisposition string
}

// Store implementations know how to write entries to a K/V store.
//
// Typically this is something file system-like. Examples are S3, local FS, NFS, ...
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, PutSettings) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
}

// PipeIO copies the reader out to the writer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	return io.Copy(writer, reader)
}
