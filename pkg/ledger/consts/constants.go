package consts

const (
	// DefaultDBName is the default database name.
	DefaultDBName = "orbitai"

	// TableNameEvents is the default table/collection name for ledger events.
	TableNameEvents = "deployment_events"

	// Column names
	ColKind         = "kind"
	ColSessionID    = "session_id"
	ColDeploymentID = "deployment_id"
	ColConfigID     = "config_id"
	ColChainName    = "chain_name"
	ColChainID      = "chain_id"
	ColParentChain  = "parent_chain"
	ColStatus       = "status"
	ColProgress     = "progress"
	ColError        = "error"
	ColCreatedAt    = "created_at"

	// Redis key prefixes
	KeySessionEvents    = "ledger:session:"
	KeyDeploymentLatest = "ledger:deployment:"

	// Neo4j specific
	LabelSession    = "Session"
	LabelDeployment = "Deployment"
	LabelEvent      = "DeploymentEvent"
	RelRecorded     = "RECORDED"
	RelHasEvent     = "HAS_EVENT"
)
