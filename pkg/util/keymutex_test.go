package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyMutexSerializesSameKey(t *testing.T) {
	km := NewKeyMutex()

	var order []int
	var wg sync.WaitGroup

	km.Lock("conv-1")
	wg.Add(1)
	go func() {
		defer wg.Done()
		km.Lock("conv-1")
		order = append(order, 2)
		km.Unlock("conv-1")
	}()

	time.Sleep(10 * time.Millisecond)
	order = append(order, 1)
	km.Unlock("conv-1")
	wg.Wait()

	assert.Equal(t, []int{1, 2}, order)
}

func TestKeyMutexIndependentKeys(t *testing.T) {
	km := NewKeyMutex()

	km.Lock("conv-1")
	done := make(chan struct{})
	go func() {
		// 另一个 key 不应被阻塞
		km.Lock("conv-2")
		km.Unlock("conv-2")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
	km.Unlock("conv-1")
}

func TestKeyMutexEntryReclaimed(t *testing.T) {
	km := NewKeyMutex()
	km.Lock("conv-1")
	km.Unlock("conv-1")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}
