package blocksync

import "context"

// ServiceController controls the appliance's DNS resolver service.
type ServiceController interface {
	// StopResolver stops the resolver service so the database can be
	// replaced underneath it.
	StopResolver(ctx context.Context) error

	// RebuildLists runs the appliance's rebuild hook, which regenerates the
	// derived blocklists from the tables and restarts the resolver.
	RebuildLists(ctx context.Context) error
}
