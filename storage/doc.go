// Package storage provides the read-side object store backends behind the
// resolution pipeline.
//
// Each backend implements interfaces.ObjectStore: it opens the object at a
// resolved bucket/key location and classifies every failure into the shared
// error taxonomy before it escapes the package. Callers never observe raw SDK
// errors.
//
// Supported backends:
//
//   - S3Store: Amazon S3 or any S3-compatible service (custom endpoint), via
//     the AWS SDK. The underlying client is built lazily, exactly once per
//     process, by S3ClientProvider.
//   - FileStore: a local directory tree, for development and testing. The
//     bucket portion of a location is ignored.
//   - IPFSStore: read-only fetches through an IPFS API node, treating the
//     object key as an IPFS path.
//
// Backend selection is configuration-driven through StoreFor.
//
// # Error Classification
//
// The S3 classification rules are deliberately conservative: only an explicit
// "no such key/bucket" signal or an HTTP 404 maps to ErrObjectNotFound, and
// only an explicit permission signal or HTTP 403 maps to ErrAccessDenied.
// Every other failure, throttling and timeouts included, surfaces as
// ErrStorageIO so that a transient outage is never mistaken for a missing
// object.
package storage
