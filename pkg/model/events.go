package model

// Event represents a simple progress notification.
type Event struct {
	Phase string // planning|fetching|updating|uninstalling|cleanup|hook|done|error
	ID    string // package name or step
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Emit delivers e to the registered callback, if any.
func (h Hooks) Emit(e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}
