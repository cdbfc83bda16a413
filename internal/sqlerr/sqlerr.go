// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes from the Postgres driver and converts them
// into user-friendly messages (e.g., converting a foreign key violation
// on cart_items into a "Bad Request" naming the missing cart).
package sqlerr
