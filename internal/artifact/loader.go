package artifact

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/risk"
)

// LoadFunc loads a bundle from a path.
type LoadFunc func(path string) (*risk.Bundle, error)

// Bundle and Reload share one singleflight key so a reload that races the
// first load joins it instead of calling LoadFunc a second time.
const loadKey = "load"

type loadState struct {
	bundle *risk.Bundle
	err    error
}

// Loader loads the bundle once, on first use, and shares it with every
// caller. A failed load is remembered and returned to every later caller
// until Reload succeeds.
type Loader struct {
	path  string
	load  LoadFunc
	group singleflight.Group

	mu    sync.RWMutex
	state *loadState
}

func NewLoader(path string) *Loader {
	return NewLoaderFunc(path, Load)
}

func NewLoaderFunc(path string, load LoadFunc) *Loader {
	return &Loader{path: path, load: load}
}

// Bundle returns the shared bundle, loading it on first call.
func (l *Loader) Bundle() (*risk.Bundle, error) {
	if s := l.current(); s != nil {
		return s.bundle, s.err
	}

	v, err, _ := l.group.Do(loadKey, func() (interface{}, error) {
		if s := l.current(); s != nil {
			return s.bundle, s.err
		}
		s := l.attempt()
		l.mu.Lock()
		l.state = s
		l.mu.Unlock()
		return s.bundle, s.err
	})
	b, _ := v.(*risk.Bundle)
	return b, err
}

// Reload loads the bundle again. On success the new bundle replaces the
// old one. On failure a previously loaded bundle keeps serving; if there
// was none, the new error is what callers see. A Reload issued while a
// load is in flight returns that load's result.
func (l *Loader) Reload() (*risk.Bundle, error) {
	v, err, _ := l.group.Do(loadKey, func() (interface{}, error) {
		s := l.attempt()
		l.mu.Lock()
		defer l.mu.Unlock()
		if s.err != nil && l.state != nil && l.state.err == nil {
			return nil, s.err
		}
		l.state = s
		return s.bundle, s.err
	})
	b, _ := v.(*risk.Bundle)
	return b, err
}

// Status reports the current load state without triggering a load.
func (l *Loader) Status() (loaded bool, version string, err error) {
	s := l.current()
	if s == nil {
		return false, "", nil
	}
	if s.err != nil {
		return false, "", s.err
	}
	return true, s.bundle.Version, nil
}

func (l *Loader) current() *loadState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

func (l *Loader) attempt() *loadState {
	b, err := l.load(l.path)
	if err == nil && b == nil {
		err = errors.New("loader returned no bundle")
	}
	if err != nil {
		var ale *model.ArtifactLoadError
		if !errors.As(err, &ale) {
			err = &model.ArtifactLoadError{Path: l.path, Err: err}
		}
		log.Error().Err(err).Str("path", l.path).Msg("model bundle load failed")
		return &loadState{err: err}
	}

	log.Info().
		Str("path", l.path).
		Str("version", b.Version).
		Int("features", b.Transform.Width()).
		Float64("calibration", b.Calibration).
		Msg("model bundle loaded")
	return &loadState{bundle: b}
}
