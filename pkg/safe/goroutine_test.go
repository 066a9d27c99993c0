package safe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoRecoversPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Do(func() {
			panic("boom")
		})
	})
}

func TestGoRunsFunction(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	Go(func() {
		ran = true
		wg.Done()
	})
	wg.Wait()
	assert.True(t, ran)
}
