// Package recording persists finished agent data (metric aggregates, slow
// transactions) into a database backend.
package recording

// A DataRecorder is a backend that can record and store rows of struct
// data.
type DataRecorder interface {
	// CreateTable creates a table shaped after sampleEntry's fields.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered entries to the database.
	Flush()

	// Close flushes and releases the underlying connection.
	Close() error
}
