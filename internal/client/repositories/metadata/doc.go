// Package metadata persists small client-side values (session record parts,
// local preferences) in the SQLite "metadata" table.
//
// The repository is constructed over dbx.DBTX, so the same code runs against
// *sql.DB or inside a transaction opened with dbx.WithTx.
package metadata
