package server

import (
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/reqshape/reqshape/internal/config"
)

// installTablesAutoReload watches the directory of params.tables_file and
// rebuilds the tables after changes settle for the debounce interval. The
// directory is watched rather than the file because editors usually replace
// files by rename.
func installTablesAutoReload(cfg *config.Config, st *state, mu *sync.Mutex) (io.Closer, error) {
	if cfg == nil || st == nil || mu == nil {
		return nil, nil
	}
	if !cfg.Params.AutoReload.Enabled {
		return nil, nil
	}
	target := strings.TrimSpace(cfg.Params.TablesFile)
	if target == "" {
		return nil, nil
	}
	target = filepath.Clean(target)
	debounce := time.Duration(cfg.Params.AutoReload.DebounceMs) * time.Millisecond

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	triggerCh := make(chan struct{}, 1)

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}
		runReload := func() {
			mu.Lock()
			err := reloadTablesRuntime(cfg, st)
			mu.Unlock()
			if err != nil {
				log.Printf("reload failed (tables auto): %v", err)
				return
			}
			t := st.Tables()
			log.Printf("reload ok (tables auto): tables_file=%q aliases=%d types=%d", target, t.Aliases.Len(), t.Types.Len())
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				runReload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("tables auto-reload watcher error: %v", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if shouldTriggerTablesReload(evt, target) {
					select {
					case triggerCh <- struct{}{}:
					default:
					}
				}
			case <-triggerCh:
				resetTimer()
			}
		}
	}()

	log.Printf("tables auto-reload enabled: file=%q debounce_ms=%d", target, cfg.Params.AutoReload.DebounceMs)
	return closerFunc(func() error {
		close(stopCh)
		_ = watcher.Close()
		<-doneCh
		return nil
	}), nil
}

func shouldTriggerTablesReload(evt fsnotify.Event, target string) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
		return false
	}
	return filepath.Clean(evt.Name) == filepath.Clean(target)
}
