// Package cluster provides the Pools on which a distiter Job runs: a LocalPool
// for a single process, and a Coordinator and its Workers, which communicate
// over gRPC. A Coordinator is itself a distiter.Pool.
package cluster
