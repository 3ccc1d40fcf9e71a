package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFirst_ReturnsFirstSatisfiedIndex(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	never := func(ctx context.Context) (bool, error) { return false, nil }
	calls := 0
	eventually := func(ctx context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	}

	idx, err := First(ctx, time.Millisecond, never, eventually)
	if err != nil {
		t.Fatalf("First() error = %v", err)
	}
	if idx != 1 {
		t.Errorf("First() index = %d, want 1", idx)
	}
}

func TestFirst_OrderWins(t *testing.T) {
	ctx := context.Background()

	yes := func(ctx context.Context) (bool, error) { return true, nil }

	idx, err := First(ctx, time.Millisecond, yes, yes)
	if err != nil {
		t.Fatalf("First() error = %v", err)
	}
	if idx != 0 {
		t.Errorf("First() index = %d, want 0 (earlier condition wins)", idx)
	}
}

func TestFirst_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	never := func(ctx context.Context) (bool, error) { return false, nil }

	_, err := First(ctx, time.Millisecond, never)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("First() error = %v, want ErrTimeout", err)
	}
}

func TestFirst_ConditionErrorAborts(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("browser crashed")

	failing := func(ctx context.Context) (bool, error) { return false, boom }

	_, err := First(ctx, time.Millisecond, failing)
	if !errors.Is(err, boom) {
		t.Errorf("First() error = %v, want %v", err, boom)
	}
}

func TestFirst_NoConditions(t *testing.T) {
	if _, err := First(context.Background(), time.Millisecond); err == nil {
		t.Error("First() with no conditions should error")
	}
}
