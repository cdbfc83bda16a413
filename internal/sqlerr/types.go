package sqlerr

// Code is the application-level category for a database error, mapped from
// the SQLSTATE the driver reports.
type Code int

const (
	// Other covers any SQLSTATE we do not classify specially.
	Other Code = iota

	// UniqueViolation: SQLSTATE 23505, a duplicate key.
	UniqueViolation

	// ForeignKeyViolation: SQLSTATE 23503, a reference to a missing row.
	ForeignKeyViolation

	// NotNullViolation: SQLSTATE 23502, a required column left empty.
	NotNullViolation

	// CheckViolation: SQLSTATE 23514, a CHECK constraint failure.
	CheckViolation

	// ConnectionFailure: SQLSTATE class 08, the store is unreachable.
	ConnectionFailure
)

// Severity mirrors the severity field of a Postgres error.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityError
	SeverityFatal
	SeverityPanic
)

// MapCode maps a SQLSTATE string onto our Code enum.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	}
	// Class 08 covers connection exceptions.
	if len(sqlstate) >= 2 && sqlstate[:2] == "08" {
		return ConnectionFailure
	}
	return Other
}

// MapSeverity maps the driver's severity string onto our enum.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	}
	return SeverityUnknown
}

// Error is our structured view of a database error. It keeps the original
// SQLSTATE and the schema metadata Postgres reports so messages can name the
// table/column involved.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the original driver error to errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.driverErr
}
