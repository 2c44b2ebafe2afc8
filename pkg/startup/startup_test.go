package startup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStartup(maxAttempts int) *Startup {
	s := NewStartup(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), maxAttempts)
	s.backoffUnit = time.Millisecond
	return s
}

func TestStartup_StartsDependenciesFirst(t *testing.T) {
	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	s := newTestStartup(1)
	s.AddDependency(Func{Name: "api", Requires: []string{"database", "redis"}, OnStart: record("api")})
	s.AddDependency(Func{Name: "migrations", Requires: []string{"database"}, OnStart: record("migrations")})
	s.AddDependency(Func{Name: "database", OnStart: record("database")})
	s.AddDependency(Func{Name: "redis", OnStart: record("redis")})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"database", "redis", "api", "migrations"}, order)
	assert.Equal(t, StatusStarted, s.Status("api"))
}

func TestStartup_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	s := newTestStartup(3)
	s.AddDependency(Func{Name: "database", OnStart: func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestStartup_GivesUpAfterMaxAttempts(t *testing.T) {
	s := newTestStartup(2)
	s.AddDependency(Func{Name: "database", OnStart: func(context.Context) error {
		return errors.New("connection refused")
	}})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, StatusFailed, s.Status("database"))
}

func TestStartup_DetectsCycles(t *testing.T) {
	s := newTestStartup(1)
	s.AddDependency(Func{Name: "a", Requires: []string{"b"}})
	s.AddDependency(Func{Name: "b", Requires: []string{"a"}})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestStartup_StopsInReverseOrder(t *testing.T) {
	var stopped []string
	stop := func(name string) func(context.Context) error {
		return func(context.Context) error {
			stopped = append(stopped, name)
			return nil
		}
	}

	s := newTestStartup(1)
	s.AddDependency(Func{Name: "database", OnStop: stop("database")})
	s.AddDependency(Func{Name: "api", Requires: []string{"database"}, OnStop: stop("api")})

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"api", "database"}, stopped)
	assert.Equal(t, StatusStopped, s.Status("database"))
}
