package schema

// Custom string types for type safety.
type (
	// Language represents a supported smart-contract language.
	Language string

	// Bucket represents the report partition a file lands in.
	Bucket string

	// OutputMode represents the format of the console summary.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All languages supported. Adding one is a deliberate change to core/lang.
const (
	Solidity Language = "Solidity"
	Rust     Language = "Rust"
	Python   Language = "Python"
	Vyper    Language = "Vyper"
	Scilla   Language = "Scilla"
)

// All buckets supported.
const (
	ContractsBucket  Bucket = "contracts" // default
	InterfacesBucket Bucket = "interfaces"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	YAMLOut OutputMode = "yaml"
	NoneOut OutputMode = "none"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Report artifact names written under the project folder.
const (
	ContractsReportName  = "combined_contracts_data.csv"
	InterfacesReportName = "combined_interfaces_data.csv"
	PortalReportName     = "cyver_portal_data.csv"
	PortalParquetName    = "cyver_portal_data.parquet"
)

// PortalItemType is the fixed Type column of the portal report.
const PortalItemType = "SmartContract"

// AllLanguages lists every supported language in display order.
var AllLanguages = []Language{Solidity, Rust, Python, Vyper, Scilla}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	YAMLOut: {},
	NoneOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
