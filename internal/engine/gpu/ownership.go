package gpu

// Destroyer is a resource with explicit GPU-side teardown.
type Destroyer interface {
	Destroy()
}

// Handle gives a pass access to a resource without revealing whether the
// pass is responsible for destroying it.
type Handle[T Destroyer] interface {
	Get() T
	// Release destroys the resource if, and only if, the handle owns it.
	Release()
}

// Owned is a resource allocated by its holder and destroyed with it.
type Owned[T Destroyer] struct {
	res      T
	released bool
}

// Own wraps res as an owned resource.
func Own[T Destroyer](res T) *Owned[T] {
	return &Owned[T]{res: res}
}

// Get returns the owned resource.
func (o *Owned[T]) Get() T {
	return o.res
}

// Release destroys the resource once.
func (o *Owned[T]) Release() {
	if o.released {
		return
	}
	o.released = true
	o.res.Destroy()
}

// Borrowed is a view of a resource owned elsewhere. The resource is resolved
// at every Get, so a borrowed view of a target that its owner reallocates
// never goes stale.
type Borrowed[T Destroyer] struct {
	resolve func() T
}

// Borrow wraps a fixed resource owned by someone else.
func Borrow[T Destroyer](res T) Borrowed[T] {
	return Borrowed[T]{resolve: func() T { return res }}
}

// BorrowFunc wraps a resolver that returns the owner's current resource.
func BorrowFunc[T Destroyer](resolve func() T) Borrowed[T] {
	return Borrowed[T]{resolve: resolve}
}

// Get resolves the borrowed resource.
func (b Borrowed[T]) Get() T {
	return b.resolve()
}

// Release is a no-op; the owner destroys the resource.
func (Borrowed[T]) Release() {}
