// Package testing runs distiter Jobs on a localhost cluster, for tests
package testing

import (
	"context"
	"net"

	"github.com/hashicorp/go-multierror"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/cluster"
)

// LocalRun runs a Job on a localhost test cluster with a certain number of
// Workers, each hosted by this process, and shuts the cluster down afterwards.
// opts may be nil; its addressing fields are overwritten.
func LocalRun[T, P, O any](ctx context.Context, job *distiter.Job[T, P, O], opts *cluster.NodeOptions, numWorkers int) (result O, err error) {
	if opts == nil {
		opts = &cluster.NodeOptions{}
	}
	// configure and start coordinator
	opts.Host = "127.0.0.1"
	opts.Port = cluster.EphemeralPort
	opts.CoordinatorHost = "127.0.0.1"
	opts.NumWorkers = numWorkers

	coordinator, err := cluster.CreateCoordinator(opts)
	if err != nil {
		return result, err
	}
	if err = coordinator.Listen(); err != nil {
		return result, err
	}
	go coordinator.Serve()
	defer coordinator.Stop()

	// start workers
	workers := make([]*cluster.WorkerNode, 0, numWorkers)
	defer func() {
		for _, w := range workers {
			w.Stop()
		}
	}()
	for i := 0; i < numWorkers; i++ {
		wopts := cluster.CloneNodeOptions(opts)
		wopts.CoordinatorPort = coordinator.Addr().(*net.TCPAddr).Port
		worker, err := cluster.CreateWorker(wopts)
		if err != nil {
			return result, err
		}
		if err = worker.Listen(); err != nil {
			return result, err
		}
		workers = append(workers, worker)
		go worker.Serve()
	}
	if err = coordinator.WaitForWorkers(ctx); err != nil {
		return result, err
	}
	result, err = job.Run(ctx, coordinator)
	if stopErr := coordinator.StopWorkers(context.WithoutCancel(ctx)); stopErr != nil {
		err = multierror.Append(err, stopErr).ErrorOrNil()
	}
	for _, w := range workers {
		if waitErr := w.Wait(ctx); waitErr != nil {
			err = multierror.Append(err, waitErr).ErrorOrNil()
		}
	}
	return result, err
}
