package dialect

import (
	"sort"
	"sync"
)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available under its Name. Dialect packages call
// it from init, so blank-importing a dialect is enough to enable it:
//
//	import _ "github.com/exceedzhang/metabase/dialect/mysql"
//
// Re-registering a name replaces the previous driver; registering a nil
// driver or an empty name panics.
func Register(d Driver) {
	if d == nil {
		panic("dialect: Register driver is nil")
	}
	name := d.Name()
	if name == "" {
		panic("dialect: Register driver has empty name")
	}
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = d
}

// Lookup returns the driver registered under name. An unknown name returns
// a NotRegisteredError.
func Lookup(name string) (Driver, error) {
	driversMu.RLock()
	d, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, &NotRegisteredError{name: name}
	}
	return d, nil
}

// Drivers returns the names of all registered drivers, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
