package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"imaginify/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnectWithoutDSNIsConfigurationError(t *testing.T) {
	var opens int32
	m := NewManager("", WithOpener(func(string) (*gorm.DB, error) {
		atomic.AddInt32(&opens, 1)
		return &gorm.DB{}, nil
	}))

	_, err := m.Connect(context.Background())

	assert.ErrorIs(t, err, apperror.ErrConfiguration)
	assert.Zero(t, atomic.LoadInt32(&opens))
}

func TestConnectReturnsSameHandle(t *testing.T) {
	var opens int32
	m := NewManager("postgres://test", WithOpener(func(string) (*gorm.DB, error) {
		atomic.AddInt32(&opens, 1)
		return &gorm.DB{}, nil
	}))

	first, err := m.Connect(context.Background())
	require.NoError(t, err)
	second, err := m.Connect(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&opens))
}

func TestConcurrentConnectSharesOneOpen(t *testing.T) {
	var opens int32
	entered := make(chan struct{})
	release := make(chan struct{})
	m := NewManager("postgres://test", WithOpener(func(string) (*gorm.DB, error) {
		if atomic.AddInt32(&opens, 1) == 1 {
			close(entered)
		}
		<-release
		return &gorm.DB{}, nil
	}))

	const callers = 16
	results := make([]*gorm.DB, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := m.Connect(context.Background())
			assert.NoError(t, err)
			results[i] = db
		}(i)
	}

	<-entered
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&opens))
	for _, db := range results {
		assert.Same(t, results[0], db)
	}
}

func TestFailedOpenIsRetried(t *testing.T) {
	var opens int32
	m := NewManager("postgres://test", WithOpener(func(string) (*gorm.DB, error) {
		if atomic.AddInt32(&opens, 1) == 1 {
			return nil, errors.New("connection refused")
		}
		return &gorm.DB{}, nil
	}))

	_, err := m.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	db, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.EqualValues(t, 2, atomic.LoadInt32(&opens))
}

func TestCancelledCallerStopsWaiting(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	m := NewManager("postgres://test", WithOpener(func(string) (*gorm.DB, error) {
		<-release
		return &gorm.DB{}, nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.Connect(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseWithoutOpenIsNoop(t *testing.T) {
	assert.NoError(t, NewManager("postgres://test").Close())
}
