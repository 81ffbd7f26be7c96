package server

import (
	"sync/atomic"
	"time"

	"github.com/reqshape/reqshape/pkg/params"
)

// state holds the runtime data shared by handlers and swapped on reload.
type state struct {
	tables       atomic.Pointer[params.Tables]
	loadedAtUnix atomic.Int64
}

func newState(t params.Tables) *state {
	st := &state{}
	st.SetTables(t)
	return st
}

// Tables returns the current alias/type tables. Callers must not mutate them.
func (s *state) Tables() *params.Tables {
	return s.tables.Load()
}

func (s *state) SetTables(t params.Tables) {
	s.tables.Store(&t)
	s.loadedAtUnix.Store(time.Now().Unix())
}

// LoadedAtUnix is the time of the last SetTables.
func (s *state) LoadedAtUnix() int64 {
	return s.loadedAtUnix.Load()
}
