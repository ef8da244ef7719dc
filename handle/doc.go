// Package handle provides opaque handle management for boundary-crossing
// resources.
//
// A Handle is an integer token identifying a native-owned value to a host
// runtime that cannot hold Go pointers. Handles carry no behavior; their
// only contract is identity and one-time validity.
//
// # Registry
//
// The Registry maps handles to owned Go values:
//
//	reg := handle.NewRegistry()
//
//	// Insert a value, get a handle
//	h := reg.Insert(myContext)
//
//	// Retrieve value by handle
//	v, ok := reg.Get(h)
//
//	// Remove succeeds exactly once
//	v, ok := reg.Remove(h)
//
// Handles are issued from a process-wide monotonic counter and never
// reused, so a handle held past its resource's death dangles harmlessly
// instead of aliasing a newer resource.
//
// # Guard
//
// The Guard enforces exactly-once release when explicit disposal races
// host-side finalization:
//
//	g := handle.NewGuard(h, bridge.DestroyContext)
//	defer g.Release() // a racing finalizer calling Release is a no-op
//
// Release performs an atomic Alive -> Released transition; exactly one
// physical release occurs no matter how many callers race.
package handle
