package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownBeforeStart(t *testing.T) {
	a := NewApp(nil)
	assert.NoError(t, a.Shutdown(context.Background()))
}

func TestShutdownConcurrent(t *testing.T) {
	a := NewApp(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, a.Shutdown(context.Background()))
		}()
	}
	wg.Wait()
}
