package common

const (
	ComponentOrchestrator = "orchestrator"
	ComponentScanner      = "scanner"
	ComponentRPC          = "rpc"
	ComponentStore        = "store"
	ComponentMaintenance  = "maintenance"
	ComponentAPI          = "api"
)

var AllComponents = map[string]struct{}{
	ComponentOrchestrator: {},
	ComponentScanner:      {},
	ComponentRPC:          {},
	ComponentStore:        {},
	ComponentMaintenance:  {},
	ComponentAPI:          {},
}
