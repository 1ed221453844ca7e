package rowan

import (
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	treeIndent  = 20.0
	treeTextPad = 4.0
	treeBtnPad  = 4.0
	arrowInset  = 5.0
)

var (
	nodeSelectColor = Color{0.80, 0.91, 1, 1}
	arrowDimColor   = Color{0.48, 0.48, 0.48, 1}
	arrowLitColor   = Color{0.33, 0.83, 0.98, 1}
)

// treeEntry is one row of the flattened pre-order node sequence: either a
// directory node or a placeholder.
type treeEntry interface {
	Widget
	nestLevel() int
	shiftY(dy float64)
	markDeleted()
	isDeleted() bool
}

// --- placeholder rows ---

// textNode is a non-interactive row standing in for children that have not
// been delivered yet ("Loading...") or failed to load ("Error").
type textNode struct {
	Base
	tree    *DirTree
	nest    int
	content string
	deleted bool
	dirty   bool
}

func newTextNode(tree *DirTree, x, y float64, nest int, content string) *textNode {
	n := &textNode{
		Base: NewBase(tree.freeName("!load"), x, y, 0, tree.entryHeight),
		tree: tree,
		nest: nest,
	}
	n.changeText(content)
	return n
}

func (n *textNode) nestLevel() int    { return n.nest }
func (n *textNode) shiftY(dy float64) { n.Y += dy }
func (n *textNode) markDeleted()      { n.deleted = true }
func (n *textNode) isDeleted() bool   { return n.deleted }

func (n *textNode) changeText(s string) {
	n.content = s
	w, _ := text.Measure(s, n.tree.face, 0)
	n.W = w + 2*treeTextPad
	n.dirty = true
}

func (n *textNode) Hit(x, y float64) bool { return false }

func (n *textNode) Update(p *Pointer, keys []KeyEvent) {
	if !n.dirty && n.img != nil {
		return
	}
	n.dirty = false
	img := n.ensureImage()
	img.Fill(ColorWhite.toRGBA())
	op := &text.DrawOptions{}
	op.GeoM.Translate(treeTextPad, n.textY())
	op.ColorScale.ScaleWithColor(Color{0, 0, 0, 1}.toRGBA())
	text.Draw(img, n.content, n.tree.face, op)
}

func (n *textNode) textY() float64 {
	m := n.tree.face.Metrics()
	return (n.H - (m.HAscent + m.HDescent)) / 2
}

// --- directory rows ---

// dirNode is one directory in the tree: an expand/collapse arrow followed by
// a selectable label. Clicking the label selects the path; a Control-click
// additionally invokes the tree's reveal action.
type dirNode struct {
	Base
	tree *DirTree

	path  string
	label string
	nest  int

	expanded bool
	selected bool
	deleted  bool

	arrowLatch clickLatch
	arrowHover bool
	bodyLatch  clickLatch
	bodyHover  bool
}

func newDirNode(tree *DirTree, x, y float64, nest int, path string, selected bool) *dirNode {
	n := &dirNode{
		tree:     tree,
		path:     path,
		label:    nodeLabel(path),
		nest:     nest,
		selected: selected,
	}
	textW, _ := text.Measure(n.label, tree.face, 0)
	w := n.arrowSize() + treeBtnPad + 2*treeTextPad + textW
	n.Base = NewBase(tree.freeName("!dir"), x, y, w, tree.entryHeight)
	return n
}

// nodeLabel derives the display text: the mount root gets a fixed label, a
// filesystem root or drive root ("/" or "C:\") displays as is, anything else
// shows its last path component.
func nodeLabel(path string) string {
	if path == MountRoot {
		return mountRootLabel
	}
	if base := filepath.Base(path); base != string(filepath.Separator) && base != "" {
		return base
	}
	return path
}

func (n *dirNode) nestLevel() int    { return n.nest }
func (n *dirNode) shiftY(dy float64) { n.Y += dy }
func (n *dirNode) markDeleted()      { n.deleted = true }
func (n *dirNode) isDeleted() bool   { return n.deleted }

func (n *dirNode) dirPath() string  { return n.path }
func (n *dirNode) isExpanded() bool { return n.expanded }

func (n *dirNode) arrowSize() float64 { return n.H - 2*arrowInset }

func (n *dirNode) arrowRect() Rect {
	return Rect{X: 0, Y: arrowInset, Width: n.arrowSize(), Height: n.arrowSize()}
}

func (n *dirNode) bodyRect() Rect {
	off := n.arrowSize() + treeBtnPad
	return Rect{X: off, Y: 0, Width: n.W - off, Height: n.H}
}

func (n *dirNode) Hit(x, y float64) bool {
	if n.deleted {
		return false
	}
	return n.Bounds().Contains(x, y)
}

func (n *dirNode) Update(p *Pointer, keys []KeyEvent) {
	if n.deleted {
		return
	}
	rel := p.Translated(-n.X, -n.Y)
	hover := !rel.HasLeft()
	n.arrowHover = hover && n.arrowRect().Contains(rel.X, rel.Y)
	n.bodyHover = hover && n.bodyRect().Contains(rel.X, rel.Y)

	if n.arrowLatch.update(n.arrowHover, rel.Button(0)) {
		was := n.expanded
		n.expanded = !n.expanded
		if !n.tree.toggleExpand(n.expanded, n.path) {
			n.expanded = was
		}
	} else if n.bodyLatch.update(n.bodyHover, rel.Button(0)) {
		n.selected = true
		n.tree.registerSelection(n.path)
		if n.tree.currentMods()&ModCtrl != 0 {
			n.tree.reveal(n.path)
		}
	}
	n.render()
}

func (n *dirNode) render() {
	img := n.ensureImage()
	img.Fill(ColorWhite.toRGBA())

	if n.selected {
		b := n.bodyRect()
		vector.DrawFilledRect(img, float32(b.X), float32(b.Y),
			float32(b.Width), float32(b.Height), nodeSelectColor.toRGBA(), false)
	}

	ac := arrowDimColor
	if n.arrowHover {
		ac = arrowLitColor
	}
	dir := arrowRight
	if n.expanded {
		dir = arrowDown
	}
	a := n.arrowRect()
	fillArrow(img, Rect{X: a.X + 2, Y: a.Y + 2, Width: a.Width - 4, Height: a.Height - 4}, dir, ac)

	m := n.tree.face.Metrics()
	op := &text.DrawOptions{}
	op.GeoM.Translate(n.arrowSize()+treeBtnPad+treeTextPad, (n.H-(m.HAscent+m.HDescent))/2)
	op.ColorScale.ScaleWithColor(Color{0, 0, 0, 1}.toRGBA())
	text.Draw(img, n.label, n.tree.face, op)
}

// setSelected is used by the tree to move or clear the highlight; the click
// path goes through Update.
func (n *dirNode) setSelected(v bool) { n.selected = v }
