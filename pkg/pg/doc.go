// Package pg connects to PostgreSQL through a pgx pool and applies the
// embedded goose migrations.
//
// Repositories work against the DBTX interface, which *sql.DB (from OpenDB)
// and *sql.Tx both satisfy; WithTx wraps a unit of work in a transaction.
// Error helpers classify driver errors without leaking pgx types upward.
package pg
