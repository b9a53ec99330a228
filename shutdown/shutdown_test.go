package shutdown

import (
	"context"
	"syscall"
	"testing"
	"time"

	"go-storefront/logger"

	"github.com/stretchr/testify/assert"
)

func TestWithSignals_CancelsOnSIGTERM(t *testing.T) {
	ctx, cancel := WithSignals(context.Background(), logger.Discard())
	defer cancel()

	assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after SIGTERM")
	}
}

func TestWithSignals_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithSignals(parent, logger.Discard())
	defer cancel()

	cancelParent()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
