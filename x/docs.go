/*
Package x contains the extensions of the escrow.

Every sub-package provides handlers, models and genesis initializers for
one concern (ownership, circuit breaker, value custody, the package ledger)
and is combined with the others by the app package. This package holds the
authentication helpers they share.
*/
package x
