package framework

// Capabilities is a type alias for a list of strings representing optional features of the
// environment a test suite runs in, such as "network" or "os:linux". Tests can require a
// capability and are skipped when it is missing.
type Capabilities []string

// Has returns true if the specified string appears in the list.
func (cs Capabilities) Has(name string) bool {
	for _, c := range cs {
		if c == name {
			return true
		}
	}
	return false
}
