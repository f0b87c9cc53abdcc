/*
Package cash keeps the balances of the escrow.

Every party, including the custody account of each package, owns a wallet
holding a single unsigned amount. Wallets are created on first deposit and
removed once drained. The Controller is the only way the other extensions
move value around.
*/
package cash
