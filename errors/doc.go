/*
Package errors implements custom error interfaces for remit.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Each root error carries
a unique code that allows to distinguish types of errors on the client side
and act accordingly.

If you want to register a custom error - use Register(code, description).
Extension codes start at 1000, for example x/breaker registers
ErrNotActive.

There is also support for stacktraces. Please ensure you create the custom
error using errors.Wrap(ErrXyz, "...") at the point of creation to ensure we
attach a stacktrace. If you wrap multiple times, we only record the first
wrap with the stacktrace.

Use ABCIInfo to turn an error into a code and a log message that are safe
to return to a client: errors that do not wrap a registered root error are
reported as a generic internal error unless running in debug mode.
*/
package errors
