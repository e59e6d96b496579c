package graph

// IDGenerator mints point and face ids. It is passed explicitly to every
// function that must create a new record so the core stays free of global
// counters.
type IDGenerator interface {
	NextID() PointID
}

// Counter is an IDGenerator backed by a monotonically increasing integer.
// The zero value starts at 1. A Counter is not safe for concurrent use.
type Counter struct {
	last PointID
}

// NewCounter returns a Counter whose next id is last+1.
func NewCounter(last PointID) *Counter {
	return &Counter{last: last}
}

// NextID returns the next id.
func (c *Counter) NextID() PointID {
	c.last++
	return c.last
}

// Last returns the most recently minted id, or the seed if none was minted.
func (c *Counter) Last() PointID {
	return c.last
}
