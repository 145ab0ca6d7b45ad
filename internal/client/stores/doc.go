// Package stores holds the client's domain state: the Session, Catalog and
// Exchange stores.
//
// Each store owns its entities and exposes operations that call the API
// executor and fold the result back into state. Every store carries exactly
// one busy flag and one last error:
//
//   - on entry an operation sets busy and clears the last error;
//   - on exit busy is cleared and, on failure, the normalized error recorded;
//   - the error is returned to the caller unchanged.
//
// Overlapping operations on the same store share the flag, so the last one to
// finish wins. State is read through snapshot methods that return copies.
// The store mutex is never held while a call to the executor is in flight.
//
// The Exchange store enforces the request lifecycle (see package lifecycle)
// before sending a status change or a cancellation; a rejected transition
// returns an error and leaves state untouched.
package stores
