//go:build unix

package signals

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSignalContextParentCancel(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())

	ctx, cancel := SetupSignalContext(parent)
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be done yet")
	default:
	}

	parentCancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be done after parent cancel")
	}

	_, ok := Received(ctx)
	assert.False(t, ok)
}

func TestSetupSignalContextCancel(t *testing.T) {
	ctx, cancel := SetupSignalContext(context.Background())
	cancel()

	<-ctx.Done()
	_, ok := Received(ctx)
	assert.False(t, ok)
}

func TestSetupSignalContextSIGTERM(t *testing.T) {
	ctx, cancel := SetupSignalContext(context.Background())
	defer cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context should be done after SIGTERM")
	}

	ie, ok := Received(ctx)
	require.True(t, ok)
	assert.Equal(t, syscall.SIGTERM, ie.Signal)
	assert.Equal(t, 143, ie.ExitCode())
	assert.Equal(t, "interrupted by terminated", ie.Error())
}

func TestInterruptErrorExitCode(t *testing.T) {
	assert.Equal(t, 130, (&InterruptError{Signal: syscall.SIGINT}).ExitCode())
}
