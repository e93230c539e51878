// Package fakelilv provides an in-memory implementation of lilv.Native for
// tests and examples.
//
// Lib tracks every world and node it hands out, counts constructor and
// destructor calls, and records contract violations (freeing a world that
// still has live nodes, using a freed world, double frees) instead of
// crashing. Failures can be injected per call:
//
//	lib := fakelilv.New()
//	lib.FailURI(lilv.MidiEvent.URI(), 1) // first lookup fails, the next succeeds
//
//	w, _ := lilv.NewWorld(lilv.WithNative(lib))
//	_, err := w.Node(lilv.MidiEvent) // ErrNodeResolution
//	n, _ := w.Node(lilv.MidiEvent)   // materialized
//	_ = w.Close()
//
//	lib.NodesFreed()  // 1
//	lib.WorldsFreed() // 1
//
// Lib is safe for concurrent use.
package fakelilv
