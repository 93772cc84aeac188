package crash

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeGoRecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	SafeGo("test", func() {
		defer wg.Done()
		panic("boom")
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not finish")
	}
}

func TestSafeGoRunsFunction(t *testing.T) {
	ran := make(chan bool, 1)
	SafeGo("ok", func() { ran <- true })

	select {
	case v := <-ran:
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("function not executed")
	}
}
