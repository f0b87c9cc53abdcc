/*
Package owner holds the single administrator of the escrow.

The administrator is set from genesis, can never become null and can only be
replaced by itself through a TransferOwnershipMsg. Other extensions use
RequireOwner to gate their administrative operations.
*/
package owner
