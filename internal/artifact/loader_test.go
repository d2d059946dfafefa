package artifact

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/risk"
)

func mustBundle(t *testing.T, version string) *risk.Bundle {
	t.Helper()
	d := testDocument()
	d.Version = version
	b, err := d.Bundle()
	require.NoError(t, err)
	return b
}

func TestLoader_LoadsOnceUnderConcurrency(t *testing.T) {
	var calls atomic.Int32
	want := mustBundle(t, "v1")
	l := NewLoaderFunc("bundle.json", func(string) (*risk.Bundle, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return want, nil
	})

	loaded, _, err := l.Status()
	assert.False(t, loaded)
	assert.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := l.Bundle()
			assert.NoError(t, err)
			assert.Same(t, want, b)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	loaded, version, err := l.Status()
	assert.True(t, loaded)
	assert.Equal(t, "v1", version)
	assert.NoError(t, err)
}

func TestLoader_ReloadJoinsFirstLoad(t *testing.T) {
	var calls atomic.Int32
	want := mustBundle(t, "v1")
	started := make(chan struct{})
	release := make(chan struct{})
	l := NewLoaderFunc("bundle.json", func(string) (*risk.Bundle, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return want, nil
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b, err := l.Bundle()
		assert.NoError(t, err)
		assert.Same(t, want, b)
	}()
	<-started
	go func() {
		defer wg.Done()
		b, err := l.Reload()
		assert.NoError(t, err)
		assert.Same(t, want, b)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	// Once the first load is done a Reload loads again.
	_, err := l.Reload()
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoader_FailureIsStickyUntilReload(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool
	fail.Store(true)

	l := NewLoaderFunc("bundle.json", func(string) (*risk.Bundle, error) {
		calls.Add(1)
		if fail.Load() {
			return nil, errors.New("disk on fire")
		}
		return mustBundle(t, "v2"), nil
	})

	for i := 0; i < 5; i++ {
		b, err := l.Bundle()
		assert.Nil(t, b)
		var ale *model.ArtifactLoadError
		require.True(t, errors.As(err, &ale))
		assert.Equal(t, "bundle.json", ale.Path)
	}
	assert.Equal(t, int32(1), calls.Load())

	_, _, err := l.Status()
	assert.Error(t, err)

	fail.Store(false)
	b, err := l.Reload()
	require.NoError(t, err)
	assert.Equal(t, "v2", b.Version)

	b, err = l.Bundle()
	require.NoError(t, err)
	assert.Equal(t, "v2", b.Version)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoader_FailedReloadKeepsServingBundle(t *testing.T) {
	var fail atomic.Bool
	l := NewLoaderFunc("bundle.json", func(string) (*risk.Bundle, error) {
		if fail.Load() {
			return nil, errors.New("corrupt")
		}
		return mustBundle(t, "v1"), nil
	})

	_, err := l.Bundle()
	require.NoError(t, err)

	fail.Store(true)
	_, err = l.Reload()
	assert.Error(t, err)

	b, err := l.Bundle()
	require.NoError(t, err)
	assert.Equal(t, "v1", b.Version)
}

func TestLoader_NilBundleIsAnError(t *testing.T) {
	l := NewLoaderFunc("bundle.json", func(string) (*risk.Bundle, error) { return nil, nil })
	_, err := l.Bundle()
	var ale *model.ArtifactLoadError
	assert.True(t, errors.As(err, &ale))
}
