package cluster_test

import (
	"context"
	goerrors "errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/cluster"
	"github.com/go-sif/distiter/datasource/memory"
	"github.com/go-sif/distiter/errors"
	"github.com/go-sif/distiter/operations/transform"
	"github.com/go-sif/distiter/reducers"
	dtesting "github.com/go-sif/distiter/testing"
)

func init() {
	distiter.RegisterStatic("cluster_test.square", func(n int) int { return n * n })
	distiter.RegisterStatic("cluster_test.explode", func(n int) int {
		if n == 3 {
			panic("three is right out")
		}
		return n
	})
}

func squares() distiter.DistributedIterator[int] {
	return transform.Map(memory.Iter([]int{1, 2}, []int{3}, []int{4, 5}, []int{6}), distiter.Static[func(int) int]("cluster_test.square"))
}

func TestLocalRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	job := distiter.NewJob(squares(), reducers.Slice[int]())
	out, err := dtesting.LocalRun(ctx, job, &cluster.NodeOptions{TasksPerWorker: 2, Compression: "zstd"}, 2)
	require.Nil(t, err)
	require.ElementsMatch(t, []int{1, 4, 9, 16, 25, 36}, out)
	require.Equal(t, int64(4), job.Stats().GetNumTasksCompleted())
}

func TestLocalRunTaskPanic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	iter := transform.Map(memory.Iter([]int{1}, []int{2, 3}), distiter.Static[func(int) int]("cluster_test.explode"))
	_, err := dtesting.LocalRun(ctx, distiter.NewJob(iter, reducers.Sum[int]()), nil, 1)
	require.Error(t, err)
	var perr *errors.PanicError
	require.True(t, goerrors.As(err, &perr))
	require.Contains(t, perr.Value, "three is right out")
}

func TestLocalPoolMatchesCluster(t *testing.T) {
	for _, pool := range []distiter.Pool{
		cluster.NewLocalPool(),
		cluster.NewLocalPool(cluster.WithCapacity(2), cluster.WithWireRoundTrip("zstd")),
	} {
		out, err := distiter.Collect(context.Background(), squares(), reducers.Sum[int](), pool)
		require.Nil(t, err)
		require.Equal(t, 91, out)
	}
}

func TestCoordinatorWaitsForWorkers(t *testing.T) {
	coordinator, err := cluster.CreateCoordinator(&cluster.NodeOptions{
		Host:              "127.0.0.1",
		Port:              cluster.EphemeralPort,
		CoordinatorHost:   "127.0.0.1",
		NumWorkers:        1,
		WorkerJoinTimeout: 50 * time.Millisecond,
	})
	require.Nil(t, err)
	require.Nil(t, coordinator.Listen())
	require.IsType(t, &net.TCPAddr{}, coordinator.Addr())
	served := make(chan error, 1)
	go func() { served <- coordinator.Serve() }()

	err = coordinator.WaitForWorkers(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 0, coordinator.NumberOfWorkers())
	require.Nil(t, coordinator.StopWorkers(context.Background()))

	require.Nil(t, coordinator.GracefulStop())
	<-served
}
