package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query,
// Added and Singleton fields for accessing entities, as well as custom state
// fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

// Execute calls f(frame).
func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

// systemParam is implemented by the field types the Scheduler manages on a
// system: Query, Added and Singleton.
type systemParam interface {
	Init(storage *Storage)
	// prepare runs before every execution of the owning system. lastRun is the
	// tick of the previous execution (0 if none) and thisRun the current one.
	prepare(lastRun, thisRun uint64)
}
