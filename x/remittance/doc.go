/*
Package remittance implements the escrow ledger.

A creator deposits an amount for a dealer under an identifier derived from
the escrow instance, both parties and a shared secret. The dealer redeems
the package by revealing the secret up to and including the deadline
height. Once the deadline has passed the creator may cancel and get the
deposit back. Package records are never deleted, so an identifier can only
ever be used once.
*/
package remittance
