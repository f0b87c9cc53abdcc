/*
Package breaker implements the circuit breaker of the escrow.

The breaker is Active by default. The administrator can pause it, resume a
paused breaker or freeze a paused one. Frozen is terminal: no transition
leaves it and every value moving operation stays disabled forever.
*/
package breaker
