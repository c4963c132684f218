// Package flowstack presents destination views over a root view for
// [Ebitengine], with a shared-element zoom transition and interactive,
// gesture-driven dismissal.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	stack := flowstack.NewStack(flowstack.DefaultConfig())
//	flowstack.RegisterDestination(stack.Registry(), func(env *flowstack.Env, p Product) flowstack.Content {
//		return newProductDetail(env, p)
//	})
//	stack.SetRoot(newCatalog(stack.RootEnv()))
//	flowstack.Run(stack, flowstack.RunConfig{Title: "Shop", Width: 390, Height: 844})
//
// For full control, implement [ebiten.Game] yourself and call
// [Stack.Update], [Stack.Draw] and [Stack.SetBounds] directly.
//
// # Path
//
// A [Path] is the ordered list of presented values and the single source of
// truth for what the stack shows. Append and RemoveLast are its only
// mutators, so it always keeps stack discipline. Values are type-erased
// behind [Value]; wrap any comparable Go value with [ValueOf]. The stack
// resolves each value's content through its [Registry], keyed by the
// value's type.
//
// # Links
//
// A [Link] is a tappable label owned by some content. Activating it
// records the label's on-screen bounds, optionally freezes the label into a
// snapshot, and appends the value with a [PathContext]. The new layer grows
// out of the label's bounds to full size (or to a centered sheet in the
// regular size class), cross-fading from the snapshot to the live content.
// Only one link per depth may present at a time.
//
// # Dismissal
//
// Every presented layer has a [DismissCoordinator]. Dragging the layer down,
// or right from its leading edge, past the threshold and releasing removes
// it; releasing earlier springs it back. Over a scroll region the gesture
// only starts while the region rests at its top. Tapping the scrim around a
// sheet dismisses it too.
//
// # Testing
//
// [Stack.InjectClick] and [Stack.InjectDrag] queue synthetic input consumed
// one event per frame. [LoadTestScript] plays a JSON script of clicks, drags,
// waits and screenshots.
//
// [Ebitengine]: https://ebitengine.org
package flowstack
