package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, "redis://"+s.Addr(), time.Second)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(ctx, "verify:tr-1", 1, 0).Err())
	assert.True(t, s.Exists("verify:tr-1"))
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestNewClient_GivesUpWhenServerIsDown(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	start := time.Now()
	_, err := NewClient(context.Background(), url, 300*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewClient_RetriesUntilServerAnswers(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = s.Restart()
	}()

	client, err := NewClient(context.Background(), "redis://"+addr, 3*time.Second)
	require.NoError(t, err)
	client.Close()
}
