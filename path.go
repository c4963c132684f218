package flowstack

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// PathContext describes how one path element transitions on and off screen.
// It is captured when a [Link] activates and is immutable afterwards, except
// for Snapshot and OverrideAnchor which may be filled in by a deferred
// capture before the transition reaches them.
type PathContext struct {
	// Anchor is the originating link's bounds in global coordinates. Nil
	// means the element is detached and transitions with a plain fade.
	Anchor *Rect
	// OverrideAnchor is a sub-region of the link (its animation anchor) in
	// global coordinates. It takes precedence over Anchor for geometry.
	OverrideAnchor *Rect

	// Snapshot is a frozen image of the link label, cross-faded over the live
	// destination during the first part of the transition.
	Snapshot *ebiten.Image

	// LinkDepth is the depth of the link that presented the element.
	LinkDepth int

	CornerRadius float64
	CornerStyle  CornerStyle

	ShadowRadius float64
	ShadowColor  *Color
	ShadowOffset Vec2

	ShowsScrim        bool
	ScaleHorizontally bool

	// SwipeUpToDismiss also commits a dismissal on an upward drag.
	SwipeUpToDismiss bool
	// TransitionWithOpacity fades the element in and out even when it has
	// an anchor.
	TransitionWithOpacity bool

	// capturing is set while a deferred snapshot capture is outstanding.
	// The element's transition waits for it.
	capturing bool
}

// SourceAnchor returns the rectangle the transition grows out of:
// OverrideAnchor when set, otherwise Anchor. Nil when detached.
func (c *PathContext) SourceAnchor() *Rect {
	if c == nil {
		return nil
	}
	if c.OverrideAnchor != nil {
		return c.OverrideAnchor
	}
	return c.Anchor
}

// IsDetached reports whether the element has no anchor to zoom from.
func (c *PathContext) IsDetached() bool {
	return c == nil || c.Anchor == nil
}

// Element is one presented value together with its transition context.
type Element struct {
	Value   Value
	Context *PathContext
	Index   int
}

// ElementKey is the identity of an Element: its value's type key and its
// index. It deliberately ignores the value payload and the context so that
// an element keeps its identity while its snapshot is still being captured.
type ElementKey struct {
	TypeKey string
	Index   int
}

// Key returns the element's identity.
func (e Element) Key() ElementKey {
	var tk string
	if e.Value != nil {
		tk = e.Value.TypeKey()
	}
	return ElementKey{TypeKey: tk, Index: e.Index}
}

// Equal compares elements by identity (type key and index).
func (e Element) Equal(other Element) bool {
	return e.Key() == other.Key()
}

// ChangeKind identifies a kind of path mutation.
type ChangeKind uint8

const (
	ChangeAppend ChangeKind = iota // an element was appended
	ChangeRemove                   // one or more elements were removed
)

// PathChange describes a single path mutation delivered to OnChange
// subscribers.
type PathChange struct {
	Kind ChangeKind
	// Elements holds the appended element or the removed elements, in
	// ascending index order.
	Elements []Element
	// Len is the path length after the mutation.
	Len int
}

// Path is the ordered list of presented values: the single source of truth
// for what a [Stack] shows above its root. Index 0 is the first presented
// element (the root is never part of the path), the last element is topmost.
//
// Append and RemoveLast are the only mutators, so the path always keeps
// stack discipline and every element's Index equals its position.
type Path struct {
	elements []Element
	handlers []pathHandler
	nextID   uint32
}

type pathHandler struct {
	id uint32
	fn func(PathChange)
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

// Len returns the number of presented elements.
func (p *Path) Len() int {
	return len(p.elements)
}

// IsEmpty reports whether nothing is presented.
func (p *Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// Depth returns the depth of the topmost layer. The root is depth 0, so an
// empty path has depth 0 and a path with one element has depth 1.
func (p *Path) Depth() int {
	return len(p.elements)
}

// Elements returns the presented elements. The returned slice MUST NOT be
// mutated.
func (p *Path) Elements() []Element {
	return p.elements
}

// Top returns the topmost element, or false when the path is empty.
func (p *Path) Top() (Element, bool) {
	if len(p.elements) == 0 {
		return Element{}, false
	}
	return p.elements[len(p.elements)-1], true
}

// At returns the element at index i, or false when i is out of range.
func (p *Path) At(i int) (Element, bool) {
	if i < 0 || i >= len(p.elements) {
		return Element{}, false
	}
	return p.elements[i], true
}

// Append presents v without a transition context (detached fade).
func (p *Path) Append(v Value) {
	p.AppendWithContext(v, nil)
}

// AppendWithContext presents v with the given transition context.
func (p *Path) AppendWithContext(v Value, ctx *PathContext) {
	if v == nil {
		Logger().Warn("flowstack: append of nil value ignored")
		return
	}
	e := Element{Value: v, Context: ctx, Index: len(p.elements)}
	p.elements = append(p.elements, e)
	Logger().Debug("flowstack: path append",
		slog.String("type", e.Value.TypeKey()),
		slog.Int("index", e.Index))
	p.notify(PathChange{Kind: ChangeAppend, Elements: []Element{e}, Len: len(p.elements)})
}

// RemoveLast removes the last n elements. Requests beyond the available
// count are clamped; n <= 0 and an empty path are no-ops.
func (p *Path) RemoveLast(n int) {
	if n <= 0 || len(p.elements) == 0 {
		return
	}
	if n > len(p.elements) {
		n = len(p.elements)
	}
	cut := len(p.elements) - n
	removed := make([]Element, n)
	copy(removed, p.elements[cut:])
	for i := cut; i < len(p.elements); i++ {
		p.elements[i] = Element{}
	}
	p.elements = p.elements[:cut]
	Logger().Debug("flowstack: path remove",
		slog.Int("count", n),
		slog.Int("len", len(p.elements)))
	p.notify(PathChange{Kind: ChangeRemove, Elements: removed, Len: len(p.elements)})
}

// Contains reports whether an element holding v exists. When level is
// non-nil the match is restricted to that index; otherwise any index
// matches.
func (p *Path) Contains(v Value, level *int) bool {
	if level != nil {
		return p.ContainsAt(v, *level)
	}
	for _, e := range p.elements {
		if sameValue(e.Value, v) {
			return true
		}
	}
	return false
}

// ContainsAt reports whether the element at index level holds v. Out of
// range levels report false.
func (p *Path) ContainsAt(v Value, level int) bool {
	e, ok := p.At(level)
	return ok && sameValue(e.Value, v)
}

// HasLinkDepth reports whether any element was presented by a link at the
// given depth.
func (p *Path) HasLinkDepth(depth int) bool {
	for _, e := range p.elements {
		if e.Context != nil && e.Context.LinkDepth == depth {
			return true
		}
	}
	return false
}

// OnChange registers fn to be called after every mutation.
func (p *Path) OnChange(fn func(PathChange)) CallbackHandle {
	p.nextID++
	id := p.nextID
	p.handlers = append(p.handlers, pathHandler{id: id, fn: fn})
	return CallbackHandle{id: id, path: p}
}

func (p *Path) notify(c PathChange) {
	// Handlers may unsubscribe while running.
	hs := append([]pathHandler(nil), p.handlers...)
	for _, h := range hs {
		h.fn(c)
	}
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id   uint32
	path *Path
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.path == nil {
		return
	}
	s := h.path.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pathHandler{}
			h.path.handlers = s[:len(s)-1]
			return
		}
	}
}
