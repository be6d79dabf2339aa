package tests

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotes(t *testing.T) {
	var n Notes

	assert.Empty(t, n.Messages())

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			n.Notify(fmt.Sprintf("msg %d", i))
		}()
	}

	wg.Wait()

	msgs := n.Messages()
	assert.Len(t, msgs, 10)
	assert.Contains(t, msgs, "msg 7")

	// the returned slice is a copy
	msgs[0] = "changed"
	assert.NotContains(t, n.Messages(), "changed")
}
