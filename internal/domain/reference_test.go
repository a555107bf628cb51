package domain

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	bookingReferencePattern = regexp.MustCompile(`^BK-[0-9A-F]{8}$`)
	transactionIDPattern    = regexp.MustCompile(`^TXN-[0-9A-F]{12}$`)
)

func TestNewBookingReference_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := NewBookingReference()
		assert.Regexp(t, bookingReferencePattern, ref)
	}
}

func TestNewTransactionID_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		assert.Regexp(t, transactionIDPattern, id)
	}
}

func TestNewBookingReference_ConcurrentGenerationIsDistinct(t *testing.T) {
	const n = 1000

	refs := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			refs <- NewBookingReference()
		}()
	}
	wg.Wait()
	close(refs)

	seen := make(map[string]struct{}, n)
	for ref := range refs {
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, n)
}
