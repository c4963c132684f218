package flowstack

// Env is the view of a Stack handed to content at one depth. The root
// content gets depth 0, the element at path index i gets depth i+1, and
// overlay content gets depth -1.
type Env struct {
	stack *Stack
	depth int
	layer *layer
}

// Depth returns the env's depth.
func (e *Env) Depth() int {
	if e == nil {
		return 0
	}
	return e.depth
}

// Stack returns the owning stack.
func (e *Env) Stack() *Stack {
	if e == nil {
		return nil
	}
	return e.stack
}

// Path returns the stack's path, or nil for an env not attached to a stack.
func (e *Env) Path() *Path { return e.path() }

func (e *Env) path() *Path {
	if e == nil || e.stack == nil {
		return nil
	}
	return e.stack.path
}

// Dismiss removes this env's element and everything presented above it.
// From the overlay it removes the topmost element. From the root it does
// nothing.
func (e *Env) Dismiss() {
	p := e.path()
	if p == nil {
		return
	}
	switch {
	case e.depth < 0:
		p.RemoveLast(1)
	case e.depth > 0:
		if e.layer != nil && e.layer.departing {
			return
		}
		p.RemoveLast(p.Len() - e.depth + 1)
	}
}

// Progress returns the transition progress of this env's element. The root
// and the overlay are always fully presented.
func (e *Env) Progress() float64 {
	if e == nil || e.layer == nil {
		return 1
	}
	return e.layer.transition.Progress()
}

// IsPresented reports whether this env's element is presented and not
// leaving.
func (e *Env) IsPresented() bool {
	if e == nil || e.layer == nil {
		return e != nil && e.stack != nil
	}
	return !e.layer.departing
}

// SetInteractiveDismissDisabled suspends or resumes the dismiss gesture for
// this env's element.
func (e *Env) SetInteractiveDismissDisabled(disabled bool) {
	if e == nil || e.layer == nil {
		return
	}
	e.layer.dismiss.SetDisabled(disabled)
}

// OnPresent registers fn to run when the element finishes its push
// transition.
func (e *Env) OnPresent(fn func()) {
	if e == nil || e.layer == nil {
		return
	}
	e.layer.onPresent = append(e.layer.onPresent, fn)
}

// OnDismiss registers fn to run when the element starts leaving.
func (e *Env) OnDismiss(fn func()) {
	if e == nil || e.layer == nil {
		return
	}
	e.layer.onDismiss = append(e.layer.onDismiss, fn)
}

// toGlobal converts a rectangle in this env's layout coordinates to global
// coordinates using the element's current frame.
func (e *Env) toGlobal(r Rect) Rect {
	if e == nil || e.stack == nil {
		return r
	}
	if e.layer == nil {
		return r.Offset(e.stack.bounds.X, e.stack.bounds.Y)
	}
	f := e.layer.frame
	s := f.ScaleRatio
	if s <= 0 {
		s = 1
	}
	return Rect{
		X:      f.Rect.X + r.X*s,
		Y:      f.Rect.Y + r.Y*s,
		Width:  r.Width * s,
		Height: r.Height * s,
	}
}
