package kernel

import (
	"sync"
	"sync/atomic"
)

// The live table tracks every kernel resource from creation to Destroy.
// It backs two guarantees: resource IDs are unique for the life of the
// process (they are the "native pointer identity" the layer above compares
// against), and a double destroy is caught immediately instead of
// corrupting later allocations.

var (
	liveMu sync.RWMutex
	live   = make(map[uint64]any)
	lastID atomic.Uint64
)

func register(obj any) uint64 {
	id := lastID.Add(1)
	liveMu.Lock()
	live[id] = obj
	liveMu.Unlock()
	return id
}

func unregister(id uint64, kind string) {
	liveMu.Lock()
	defer liveMu.Unlock()
	if _, ok := live[id]; !ok {
		panic("kernel: double destroy of " + kind)
	}
	delete(live, id)
}

// Live reports the number of kernel resources that have been created but
// not destroyed. Intended for leak checks in tests.
func Live() int {
	liveMu.RLock()
	defer liveMu.RUnlock()
	return len(live)
}
