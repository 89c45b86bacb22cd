// control/hotreload.go
// Manages global hot-reload hooks for config changes.

package control

import "sync"

var (
	reloadMu     sync.Mutex
	reloadNextID uint64
	reloadHooks  = make(map[uint64]func())
)

// RegisterReloadHook adds a new component reload listener. The returned
// function removes it again; calling it more than once is harmless.
func RegisterReloadHook(fn func()) (unregister func()) {
	reloadMu.Lock()
	reloadNextID++
	id := reloadNextID
	reloadHooks[id] = fn
	reloadMu.Unlock()

	return func() {
		reloadMu.Lock()
		delete(reloadHooks, id)
		reloadMu.Unlock()
	}
}

// ReloadHookCount returns the number of registered hooks.
func ReloadHookCount() int {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	return len(reloadHooks)
}

func hooks() []func() {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	out := make([]func(), 0, len(reloadHooks))
	for _, fn := range reloadHooks {
		out = append(out, fn)
	}
	return out
}

// TriggerHotReload dispatches all reload hooks asynchronously.
func TriggerHotReload() {
	for _, fn := range hooks() {
		go fn()
	}
}

// TriggerHotReloadSync invokes all reload hooks synchronously (for test determinism).
func TriggerHotReloadSync() {
	for _, fn := range hooks() {
		fn()
	}
}
