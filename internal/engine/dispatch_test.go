package engine

import (
	"context"
	"errors"
	"testing"
)

func TestMapReplicates_SequentialOrder(t *testing.T) {
	results, err := MapReplicates(context.Background(), 50, false, 0,
		func(ctx context.Context, i int) (int, error) { return i * 2, nil })
	if err != nil {
		t.Fatalf("MapReplicates failed: %v", err)
	}
	for i, v := range results {
		if v != i*2 {
			t.Fatalf("result[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestMapReplicates_ParallelOrder(t *testing.T) {
	results, err := MapReplicates(context.Background(), 200, true, 4,
		func(ctx context.Context, i int) (int, error) { return i, nil })
	if err != nil {
		t.Fatalf("MapReplicates failed: %v", err)
	}
	if len(results) != 200 {
		t.Fatalf("expected 200 results, got %d", len(results))
	}
	for i, v := range results {
		if v != i {
			t.Fatalf("result[%d] = %d: parallel results must keep input order", i, v)
		}
	}
}

func TestMapReplicates_TaskErrorFailsPhase(t *testing.T) {
	boom := errors.New("worker crashed")

	_, err := MapReplicates(context.Background(), 20, true, 2,
		func(ctx context.Context, i int) (int, error) {
			if i == 7 {
				return 0, boom
			}
			return i, nil
		})
	if !errors.Is(err, boom) {
		t.Fatalf("expected worker error, got %v", err)
	}
}

func TestMapReplicates_ZeroReplicates(t *testing.T) {
	results, err := MapReplicates(context.Background(), 0, true, 2,
		func(ctx context.Context, i int) (int, error) { return i, nil })
	if err != nil {
		t.Fatalf("MapReplicates failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestDefaultWorkers(t *testing.T) {
	if DefaultWorkers() < 1 {
		t.Error("DefaultWorkers must be at least 1")
	}
}
