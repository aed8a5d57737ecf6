// Package interfaces defines the shared contracts and value types used across
// the imgsource resolution pipeline.
//
// The package contains no implementation logic. It exists so that the core
// resolver, the storage backends, the delegate client, and the HTTP surface
// can depend on a common vocabulary without depending on each other:
//
//   - Identifier and ObjectLocation: the externally supplied name for a
//     resource, and the bucket/key pair it resolves to.
//   - ObjectStore and ObjectHandle: the read-side storage contract and the
//     open remote object it yields.
//   - KeyResolver: the lookup strategy contract mapping an identifier to an
//     object location.
//   - DelegateClient and DelegateResult: the external decision procedure used
//     by delegate-based lookup, and its validated, tagged result.
//
// # Error Taxonomy
//
// All failure classification in the system converges on the sentinel errors
// declared here. Implementations wrap them with fmt.Errorf("%w: ...", err) so
// callers can classify with errors.Is while retaining the underlying detail:
//
//   - ErrObjectNotFound: no object at the resolved location, or the delegate
//     declined to produce a key.
//   - ErrAccessDenied: the object exists but is not readable with the current
//     credentials.
//   - ErrStorageIO: any other storage-layer failure.
//   - ErrInvalidDelegateResult: the delegate returned an uninterpretable shape.
//   - ErrDelegateUnavailable: the delegate call itself failed or delegate
//     lookups are not configured.
//   - ErrInvalidConfiguration: the lookup strategy selector is unset or
//     unrecognized.
package interfaces
