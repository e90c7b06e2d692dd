package service

const (
	// Chart and list windows
	ChartDays           = 42
	RecentWorkoutsLimit = 10
	WorkoutsListLimit   = 50

	// Drafting scenarios for the race plan, as % CdA reduction
	ConservativeDraftPct = 15.0
	OptimisticDraftPct   = 25.0

	// Sync bookkeeping key for the last successful import
	lastImportKey = "last_import"
)
