// Package rowan is a retained-mode widget toolkit for [Ebitengine].
//
// Rowan provides the container, input dispatch, and scrolling machinery for
// building dialogs, menus, and editor panels over a composited 2D surface,
// plus an asynchronous, cached, cancellable directory-tree browser built on
// top of it.
//
// # Quick start
//
// Construct a [Frame], add widgets to it, and drive it once per tick from
// your [ebiten.Game]:
//
//	frame := rowan.NewFrame("ui", 0, 0, 640, 480, 20)
//	frame.Add(rowan.NewLabel("title", 10, 10, "Hello", face))
//
//	type Game struct {
//		frame   *rowan.Frame
//		pointer *rowan.Pointer
//		keys    []rowan.KeyEvent
//	}
//
//	func (g *Game) Update() error {
//		g.pointer.ReadInput()
//		g.keys = rowan.ReadKeys(g.keys[:0])
//		g.frame.Update(g.pointer, g.keys)
//		g.pointer.EndTick()
//		return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.frame.Draw(screen)
//	}
//
// # Input dispatch
//
// Every tick the application fills one [Pointer] from the mouse state and
// hands it to each top-level Frame in z order. A Frame only treats the
// pointer as live when its own z level matches the pointer's occlusion
// depth and its bounds contain the position; children of a non-live Frame
// receive a dead pointer and never react. A live Frame whose children all
// missed increments the occlusion depth so the next lower layer can claim
// the pointer the same tick.
//
// # Directory tree
//
// [DirTree] is a specialized Frame that lazily expands a filesystem tree.
// Each expand spawns one loader goroutine that scans a directory (or reads
// a per-path disk cache) and publishes its result on a channel drained once
// per tick; collapse cancels in-flight loaders cooperatively. See
// examples/browser for a complete program.
//
// [Ebitengine]: https://ebitengine.org
package rowan
