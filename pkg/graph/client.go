// Package graph builds the derived relationship graph from event records
// and merges it with the reference graph into the unified graph handed to
// presentation consumers.
package graph

import (
	"sync"

	"github.com/actorgraph/actorgraph/pkg/common"
)

// Client builds and merges relationship graphs. It remembers the content
// fingerprint of the last ingested record batch so unchanged batches skip
// the rebuild entirely.
//
// A Client should be created using NewClient.
type Client struct {
	minNodeWeight float64
	maxNodeWeight float64

	mu              sync.Mutex
	lastFingerprint string
	lastUnified     *common.Graph
}

// NewClientParams defines the configuration for creating a new Client.
// MinNodeWeight and MaxNodeWeight bound the visual weight assigned to
// nodes; zero values select the defaults 8 and 42.
type NewClientParams struct {
	MinNodeWeight float64
	MaxNodeWeight float64
}

// NewClient creates and returns a new Client configured with the provided
// parameters.
func NewClient(params NewClientParams) *Client {
	minWeight := params.MinNodeWeight
	if minWeight <= 0 {
		minWeight = 8
	}
	maxWeight := params.MaxNodeWeight
	if maxWeight <= minWeight {
		maxWeight = minWeight + 34
	}
	return &Client{
		minNodeWeight: minWeight,
		maxNodeWeight: maxWeight,
	}
}

// Ingest rebuilds the derived graph from records and merges it against the
// reference graph, unless the batch fingerprint matches the previous
// ingest, in which case the prior unified graph is returned unchanged.
// The fingerprint guard is what keeps repeated merges from double-counting;
// callers must go through Ingest rather than calling Merge directly with
// an unchanged batch.
//
// finalize, when non-nil, runs on the new graph before it is published, so
// Unified never exposes a snapshot that is still being mutated. A finalize
// error does not withhold the graph; the snapshot is published as-is and
// the error returned for the caller to log.
func (c *Client) Ingest(reference *common.Graph, records []*common.EventRecord, finalize func(*common.Graph) error) (*common.Graph, bool, error) {
	fp := Fingerprint(records)

	c.mu.Lock()
	if c.lastUnified != nil && fp == c.lastFingerprint {
		unified := c.lastUnified
		c.mu.Unlock()
		return unified, false, nil
	}
	c.mu.Unlock()

	derived := c.Build(records)
	unified := c.Merge(reference, derived)

	var finalizeErr error
	if finalize != nil {
		finalizeErr = finalize(unified)
	}

	c.mu.Lock()
	c.lastFingerprint = fp
	c.lastUnified = unified
	c.mu.Unlock()

	return unified, true, finalizeErr
}

// Unified returns the most recently ingested unified graph, if any.
func (c *Client) Unified() (*common.Graph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastUnified == nil {
		return nil, false
	}
	return c.lastUnified, true
}
