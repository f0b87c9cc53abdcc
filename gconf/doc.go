/*
Package gconf stores the configuration of the extensions as singletons in
the database, one per package, under the "_c:<pkg>" key.

Configurations are loaded from the "conf" section of the genesis file and
can later be patched by the escrow administrator.
*/
package gconf
