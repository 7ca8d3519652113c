package testutil

import (
	"context"

	"blocksync/internal/blocksync"
)

// FakeServiceController records resolver control calls.
type FakeServiceController struct {
	StopCalls    int
	RebuildCalls int

	StopErr    error
	RebuildErr error
}

func (c *FakeServiceController) StopResolver(_ context.Context) error {
	c.StopCalls++
	return c.StopErr
}

func (c *FakeServiceController) RebuildLists(_ context.Context) error {
	c.RebuildCalls++
	return c.RebuildErr
}

// Compile-time check
var _ blocksync.ServiceController = (*FakeServiceController)(nil)
