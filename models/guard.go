package models

// Role names for the administrative allow-lists.
const (
	RoleAdmin  = "admin"
	RolePauser = "pauser"
)

// SettlerCapability proves the holder was on the authorized-settler
// allow-list when the capability was issued. Settlement operations take
// the token instead of re-checking a string-keyed lookup, so who may
// settle is traceable at compile time.
type SettlerCapability struct {
	addr string
}

// NewSettlerCapability is called by the guard service after the allow-list
// check passes.
func NewSettlerCapability(addr string) SettlerCapability {
	return SettlerCapability{addr: addr}
}

// Addr returns the settler address the capability was issued to.
func (c SettlerCapability) Addr() string {
	return c.addr
}

// Valid reports whether the capability was issued (the zero value is not).
func (c SettlerCapability) Valid() bool {
	return c.addr != ""
}
