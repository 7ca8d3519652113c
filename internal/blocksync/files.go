package blocksync

// Snapshot file names inside the tracked working copy. The two CSV files are
// table exports regenerated on every push and consumed on every pull; the
// other two are appliance-native files mirrored byte-for-byte.
const (
	AdlistExport     = "adlist.csv"
	DomainlistExport = "domainlist.csv"
	CustomListFile   = "custom.list"
	CNAMEConfFile    = "05-cname.conf"
)

// Database tables tracked by the snapshot. Import is always a full replace:
// the table is dropped and recreated from the export, never merged.
const (
	AdlistTable     = "adlist"
	DomainlistTable = "domainlist"
)

// Paths holds the fixed locations the orchestrator operates on. They are
// supplied from configuration at construction so tests can substitute
// temporary directories.
type Paths struct {
	// ApplianceDir is the appliance config directory holding CustomListFile
	// and the appliance database.
	ApplianceDir string

	// SnippetDir is the resolver drop-in directory holding CNAMEConfFile.
	SnippetDir string

	// WorkDir is the tracked working copy mirroring the list snapshot.
	WorkDir string

	// DatabasePath is the appliance SQLite database file.
	DatabasePath string
}
