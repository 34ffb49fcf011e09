package cache

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// newTestStore returns a Store rooted in a temp dir whose startup scan has finished.
func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	return openTestStore(t, t.TempDir(), opts)
}

func openTestStore(t *testing.T, root string, opts Options) *Store {
	t.Helper()
	if opts.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		opts.Logger = logger
	}
	store, err := New(root, opts)
	require.NoError(t, err)
	store.Wait()
	return store
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// xorCipher flips every byte; enough to prove the payload on disk differs.
type xorCipher struct{}

func (xorCipher) Encrypt(b []byte) ([]byte, error) { return xorBytes(b), nil }
func (xorCipher) Decrypt(b []byte) ([]byte, error) { return xorBytes(b), nil }

func xorBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c ^ 0x5a
	}
	return out
}

type brokenCipher struct {
	encryptErr error
	decryptErr error
}

func (c brokenCipher) Encrypt(b []byte) ([]byte, error) {
	if c.encryptErr != nil {
		return nil, c.encryptErr
	}
	return b, nil
}

func (c brokenCipher) Decrypt(b []byte) ([]byte, error) {
	if c.decryptErr != nil {
		return nil, c.decryptErr
	}
	return b, nil
}

var errBoom = errors.New("boom")
