package selector

// UseSnapshot returns a function that reads the current value of the
// nearest provider of s. Calling UseSnapshot does not subscribe the
// component: the returned function is meant for event handlers that need
// the latest value at the time they run.
//
// The returned function keeps its identity for the lifetime of the
// provider.
//
// UseSnapshot panics with a *MissingProviderError under the same conditions
// as UseSelector; otherwise an unbound store yields a function returning the
// default.
//
// This is a hook and MUST be called unconditionally during render.
func UseSnapshot[V any](s *Store[V]) func() V {
	return s.use("UseSnapshot", true).Snapshot
}

// SnapshotWithStore fixes the store of UseSnapshot:
//
//	var useSettingsSnapshot = selector.SnapshotWithStore(Settings)
//	get := useSettingsSnapshot()
func SnapshotWithStore[V any](s *Store[V]) func() func() V {
	return func() func() V {
		return s.use("SnapshotWithStore", true).Snapshot
	}
}
