// Package store provides the sinks downloaded payloads are persisted to.
//
// This package contains:
//   - DirStore, which writes files into a local directory
//   - BlobStore, which writes objects into any gocloud.dev bucket
//   - ImageStore, which re-encodes images before handing them on
//   - Filename sanitization for cross-platform compatibility
//
// # Opening a Store
//
//	s, err := store.Open(ctx, store.Options{Dir: "downloaded"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	err = s.Store(ctx, "br.gif", data)
//
// Setting Options.URL (e.g. "file:///tmp/flags" or "mem://") stores into a
// bucket instead of a directory.
//
// # Image Processing
//
// With Options.ConvertToJPEG or Options.ResizeMax set, payloads are decoded
// and re-encoded as JPEG before storing:
//
//	s, _ := store.Open(ctx, store.Options{Dir: "out", ConvertToJPEG: true, ResizeMax: 200})
//	s.Store(ctx, "br.gif", gifData) // writes out/br.jpg, at most 200x200
//
// Every Store implementation is safe for concurrent use with distinct names.
package store
