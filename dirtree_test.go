package rowan

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

func testFace() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

func newTestTree(t *testing.T, onSelect func(string)) *DirTree {
	t.Helper()
	tree, err := NewDirTree("tree", 0, 0, 300, 400, testFace(), 24, 20, onSelect)
	if err != nil {
		t.Fatalf("NewDirTree: %v", err)
	}
	t.Cleanup(func() { tree.Close() }) //nolint:errcheck
	return tree
}

// addDirRow appends a directory row after the existing sequence, the way a
// delivered listing would.
func addDirRow(t *testing.T, tree *DirTree, path string, nest int) *dirNode {
	t.Helper()
	tree.mu.Lock()
	defer tree.mu.Unlock()
	n := newDirNode(tree, float64(nest)*treeIndent,
		float64(len(tree.nodes))*tree.entryHeight, nest, path, false)
	if err := tree.Frame.Add(n); err != nil {
		t.Fatalf("add row: %v", err)
	}
	tree.nodes = append(tree.nodes, n)
	return n
}

// awaitResult receives one loader delivery or fails the test.
func awaitResult(t *testing.T, tree *DirTree) loadResult {
	t.Helper()
	select {
	case res := <-tree.results:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("loader result never arrived")
		return loadResult{}
	}
}

func flushScheduled(tree *DirTree) {
	tree.mu.Lock()
	tree.runScheduledLocked()
	tree.mu.Unlock()
}

// --- Construction ---

func TestNewDirTreeLayout(t *testing.T) {
	tree := newTestTree(t, nil)

	if len(tree.nodes) != 1 {
		t.Fatalf("node count = %d, want 1 (root)", len(tree.nodes))
	}
	root, ok := tree.nodes[0].(*dirNode)
	if !ok {
		t.Fatal("first node should be a directory row")
	}
	if root.path != MountRoot || !root.selected {
		t.Errorf("root path = %q selected = %v, want mount root selected", root.path, root.selected)
	}
	if tree.SelectedPath() != MountRoot {
		t.Errorf("SelectedPath = %q, want %q", tree.SelectedPath(), MountRoot)
	}
	if tree.Widget("!vscroll") == nil || tree.Widget("!hscroll") == nil {
		t.Error("both scrollbars should be attached")
	}
}

func TestDirTreeInheritsLayer(t *testing.T) {
	outer := NewFrame("outer", 0, 0, 500, 500, 0)
	outer.Z = 3
	tree := newTestTree(t, nil)
	if err := outer.Add(tree); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tree.Z != 3 {
		t.Errorf("tree Z = %d, want 3 (inherited)", tree.Z)
	}
}

func TestFreeNameUnique(t *testing.T) {
	tree := newTestTree(t, nil)
	a := tree.freeName("!dir")
	b := tree.freeName("!dir")
	if a == b {
		t.Errorf("freeName returned %q twice", a)
	}
}

// --- Expand ---

func TestExpandInsertsPlaceholderAndDelivers(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"alpha", "beta"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	tree := newTestTree(t, nil)
	n := addDirRow(t, tree, dir, 1)

	if !tree.toggleExpand(true, dir) {
		t.Fatal("expand should be accepted")
	}

	tree.mu.Lock()
	if len(tree.nodes) != 3 {
		t.Fatalf("node count after expand = %d, want 3", len(tree.nodes))
	}
	ph, ok := tree.nodes[2].(*textNode)
	if !ok {
		t.Fatal("row after the expanded node should be the placeholder")
	}
	if ph.content != "Loading..." {
		t.Errorf("placeholder text = %q", ph.content)
	}
	if ph.nest != n.nest+1 {
		t.Errorf("placeholder nest = %d, want %d", ph.nest, n.nest+1)
	}
	if ph.X != n.X+treeIndent || ph.Y != n.Y+tree.entryHeight {
		t.Errorf("placeholder at (%v, %v), want (%v, %v)",
			ph.X, ph.Y, n.X+treeIndent, n.Y+tree.entryHeight)
	}
	tree.mu.Unlock()
	flushScheduled(tree)

	res := awaitResult(t, tree)
	if !res.ok || len(res.dirs) != 2 {
		t.Fatalf("result = %+v, want 2 dirs ok", res)
	}
	tree.mu.Lock()
	tree.applyResultLocked(res)
	if len(tree.nodes) != 4 {
		t.Fatalf("node count after delivery = %d, want 4", len(tree.nodes))
	}
	for i, wantName := range []string{"alpha", "beta"} {
		child, ok := tree.nodes[2+i].(*dirNode)
		if !ok {
			t.Fatalf("row %d is not a directory row", 2+i)
		}
		if child.label != wantName {
			t.Errorf("row %d label = %q, want %q", 2+i, child.label, wantName)
		}
		if child.nest != n.nest+1 {
			t.Errorf("row %d nest = %d, want %d", 2+i, child.nest, n.nest+1)
		}
		if child.Y != n.Y+float64(i+1)*tree.entryHeight {
			t.Errorf("row %d Y = %v, want %v", 2+i, child.Y, n.Y+float64(i+1)*tree.entryHeight)
		}
		if tree.Widget(child.Name()) == nil {
			t.Errorf("row %d not attached to the frame", 2+i)
		}
	}
	if tree.Widget(ph.Name()) != nil {
		t.Error("placeholder should be detached after delivery")
	}
	tree.mu.Unlock()
}

func TestExpandShiftsLaterRows(t *testing.T) {
	dir := t.TempDir()
	tree := newTestTree(t, nil)
	addDirRow(t, tree, dir, 1)
	later := addDirRow(t, tree, filepath.Join(dir, "x"), 1)
	wantY := later.Y + tree.entryHeight

	if !tree.toggleExpand(true, dir) {
		t.Fatal("expand should be accepted")
	}
	if later.Y != wantY {
		t.Errorf("later row Y = %v, want %v", later.Y, wantY)
	}
}

func TestExpandRejectedWhileLoading(t *testing.T) {
	dir := t.TempDir()
	tree := newTestTree(t, nil)
	addDirRow(t, tree, dir, 1)

	// A live loader for the path blocks a second expand.
	task := newLoaderTask(dir)
	tree.mu.Lock()
	tree.tasks[hashPath(dir)] = task
	tree.mu.Unlock()

	if tree.toggleExpand(true, dir) {
		t.Error("expand with a loader in flight should be rejected")
	}

	// The synthetic task has no goroutine; mark it finished so the
	// cleanup Close can join it.
	close(task.done)
}

func TestExpandUnknownPathRejected(t *testing.T) {
	tree := newTestTree(t, nil)
	if tree.toggleExpand(true, "/no/such/row") {
		t.Error("expand of an absent row should be rejected")
	}
}

func TestExpandDuringRefreshDefersLoader(t *testing.T) {
	dir := t.TempDir()
	tree := newTestTree(t, nil)
	addDirRow(t, tree, dir, 1)

	tree.refreshing.Store(true)
	defer tree.refreshing.Store(false)
	if !tree.toggleExpand(true, dir) {
		t.Fatal("expand should be accepted")
	}
	tree.mu.Lock()
	defer tree.mu.Unlock()
	if len(tree.deferred) != 1 || tree.deferred[0].path != dir {
		t.Errorf("deferred = %v, want one task for %q", tree.deferred, dir)
	}
	if len(tree.tasks) != 0 {
		t.Error("no loader should start while a refresh is running")
	}
}

func TestFailedLoadShowsErrorRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	tree := newTestTree(t, nil)
	addDirRow(t, tree, path, 1)

	if !tree.toggleExpand(true, path) {
		t.Fatal("expand should be accepted")
	}
	flushScheduled(tree)
	res := awaitResult(t, tree)
	if res.ok {
		t.Fatal("loading a missing directory should fail")
	}

	tree.mu.Lock()
	defer tree.mu.Unlock()
	tree.applyResultLocked(res)
	ph, ok := tree.nodes[2].(*textNode)
	if !ok || ph.content != "Error" {
		t.Errorf("row after failed load = %T %q, want Error text", tree.nodes[2], ph.content)
	}
}

// --- Collapse ---

func TestCollapseRemovesRunAndDiscardsLateResult(t *testing.T) {
	dir := t.TempDir()
	tree := newTestTree(t, nil)
	addDirRow(t, tree, dir, 1)

	if !tree.toggleExpand(true, dir) {
		t.Fatal("expand should be accepted")
	}
	flushScheduled(tree)
	res := awaitResult(t, tree) // hold the delivery back

	if !tree.toggleExpand(false, dir) {
		t.Fatal("collapse should be accepted")
	}
	tree.mu.Lock()
	ph := tree.nodes[2]
	if !ph.isDeleted() {
		t.Error("placeholder should be soft-deleted by the collapse")
	}

	// The held-back result must not resurrect the run.
	before := len(tree.nodes)
	tree.applyResultLocked(res)
	if len(tree.nodes) != before {
		t.Errorf("late result changed node count %d -> %d", before, len(tree.nodes))
	}
	tree.mu.Unlock()
}

func TestCollapseCancelsPendingLoader(t *testing.T) {
	dir := t.TempDir()
	tree := newTestTree(t, nil)
	addDirRow(t, tree, dir, 1)

	task := newLoaderTask(dir)
	tree.mu.Lock()
	tree.tasks[hashPath(dir)] = task
	tree.mu.Unlock()

	if !tree.toggleExpand(false, dir) {
		t.Fatal("collapse should be accepted")
	}
	if task.live() {
		t.Error("collapse should cancel the loader")
	}
	tree.mu.Lock()
	defer tree.mu.Unlock()
	if len(tree.tasks) != 0 {
		t.Error("cancelled loader should leave the registry")
	}
	if len(tree.orphans) != 1 {
		t.Errorf("orphans = %d, want 1 (joined on the next refresh)", len(tree.orphans))
	}

	// The synthetic task has no goroutine; mark it finished so the
	// cleanup Close can join it.
	close(task.done)
}

func TestCollapseMovesSelectionUp(t *testing.T) {
	base := t.TempDir()
	child := filepath.Join(base, "inner")
	tree := newTestTree(t, nil)
	parent := addDirRow(t, tree, base, 1)
	addDirRow(t, tree, child, 2)

	tree.mu.Lock()
	tree.selectedPath = child
	tree.mu.Unlock()

	if !tree.toggleExpand(false, base) {
		t.Fatal("collapse should be accepted")
	}
	if got := tree.SelectedPath(); got != base {
		t.Errorf("selection after collapse = %q, want %q", got, base)
	}
	if !parent.selected {
		t.Error("collapsed parent should take the highlight")
	}
}

func TestCollapseShiftsLaterRowsBack(t *testing.T) {
	base := t.TempDir()
	tree := newTestTree(t, nil)
	addDirRow(t, tree, base, 1)
	addDirRow(t, tree, filepath.Join(base, "a"), 2)
	addDirRow(t, tree, filepath.Join(base, "b"), 2)
	sibling := addDirRow(t, tree, filepath.Join(t.TempDir(), "s"), 1)
	wantY := sibling.Y - 2*tree.entryHeight

	if !tree.toggleExpand(false, base) {
		t.Fatal("collapse should be accepted")
	}
	if sibling.Y != wantY {
		t.Errorf("sibling Y = %v, want %v", sibling.Y, wantY)
	}
	if sibling.isDeleted() {
		t.Error("rows outside the run must survive the collapse")
	}
}

func TestSweepCompactsDeletedRows(t *testing.T) {
	base := t.TempDir()
	tree := newTestTree(t, nil)
	addDirRow(t, tree, base, 1)
	addDirRow(t, tree, filepath.Join(base, "a"), 2)

	if !tree.toggleExpand(false, base) {
		t.Fatal("collapse should be accepted")
	}
	tree.sweeping.Store(true)
	tree.sweepNodes()

	tree.mu.Lock()
	defer tree.mu.Unlock()
	if len(tree.nodes) != 2 {
		t.Errorf("node count after sweep = %d, want 2", len(tree.nodes))
	}
	for i, n := range tree.nodes {
		if n.isDeleted() {
			t.Errorf("node %d still marked deleted after sweep", i)
		}
	}
}

// --- Selection ---

func TestRegisterSelection(t *testing.T) {
	var fired []string
	tree := newTestTree(t, func(p string) { fired = append(fired, p) })
	n := addDirRow(t, tree, t.TempDir(), 1)

	tree.registerSelection(n.path)
	tree.registerSelection(n.path) // re-selecting is a no-op

	if len(fired) != 1 || fired[0] != n.path {
		t.Errorf("onSelect fired %v, want exactly one %q", fired, n.path)
	}
	if tree.SelectedPath() != n.path {
		t.Errorf("SelectedPath = %q, want %q", tree.SelectedPath(), n.path)
	}
	if root := tree.nodes[0].(*dirNode); root.selected {
		t.Error("previous selection should lose the highlight")
	}
}

func TestControlClickFiresReveal(t *testing.T) {
	tree := newTestTree(t, nil)
	var revealed string
	tree.SetRevealAction(func(p string) { revealed = p })
	tree.mods = ModCtrl

	root := tree.nodes[0].(*dirNode)
	body := root.bodyRect()
	p := NewPointer()
	p.SetPos(root.X+body.X+2, root.Y+body.Y+2)
	root.Update(p, nil)
	p.SetButton(0, true)
	root.Update(p, nil)
	p.SetButton(0, false)
	root.Update(p, nil)

	if revealed != MountRoot {
		t.Errorf("revealed = %q, want %q", revealed, MountRoot)
	}
}

// --- Refresh and close ---

func TestReloadDropsVanishedRows(t *testing.T) {
	tree := newTestTree(t, nil)
	gone := addDirRow(t, tree, filepath.Join(t.TempDir(), "gone"), 1)

	tree.mu.Lock()
	tree.selectedPath = gone.path
	tree.reloadLocked()
	nodes := len(tree.nodes)
	tree.mu.Unlock()

	// The root is collapsed, so the rebuild keeps only the root row.
	if nodes != 1 {
		t.Errorf("node count after reload = %d, want 1", nodes)
	}
	if !gone.isDeleted() {
		t.Error("unreachable row should be scheduled for removal")
	}
	if got := tree.SelectedPath(); got != MountRoot {
		t.Errorf("vanished selection moved to %q, want the root", got)
	}
	if root := tree.nodes[0].(*dirNode); !root.selected {
		t.Error("root should take the highlight")
	}
}

func TestRefreshAppliesOnNextUpdate(t *testing.T) {
	tree := newTestTree(t, nil)
	gone := addDirRow(t, tree, filepath.Join(t.TempDir(), "gone"), 1)

	tree.Refresh()
	tree.refreshWG.Wait()

	// The background goroutine only schedules the rebuild; rows are
	// untouched until the update pass applies it.
	if gone.isDeleted() {
		t.Error("background refresh must not touch rows before the next update")
	}
	tree.mu.Lock()
	pending := tree.reloadPending
	tree.mu.Unlock()
	if !pending {
		t.Error("refresh should schedule the rebuild")
	}

	flushScheduled(tree)

	if !gone.isDeleted() {
		t.Error("rebuild should drop the unreachable row")
	}
	tree.mu.Lock()
	nodes := len(tree.nodes)
	pending = tree.reloadPending
	tree.mu.Unlock()
	if nodes != 1 {
		t.Errorf("node count after the rebuild = %d, want 1 (collapsed root)", nodes)
	}
	if pending {
		t.Error("rebuild should run exactly once")
	}
}

func TestRefreshConcurrentWithUpdates(t *testing.T) {
	tree := newTestTree(t, nil)
	addDirRow(t, tree, filepath.Join(t.TempDir(), "row"), 1)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p := NewPointer()
		for {
			select {
			case <-stop:
				return
			default:
			}
			tree.Update(p, nil)
			p.EndTick()
		}
	}()
	for i := 0; i < 20; i++ {
		tree.Refresh()
		tree.refreshWG.Wait()
	}
	close(stop)
	wg.Wait()

	tree.mu.Lock()
	defer tree.mu.Unlock()
	if len(tree.nodes) == 0 {
		t.Error("root row should survive repeated refreshes")
	}
}

func TestDeferredLoaderStartsAfterRefresh(t *testing.T) {
	dir := t.TempDir()
	tree := newTestTree(t, nil)
	addDirRow(t, tree, dir, 1)

	tree.refreshing.Store(true)
	if !tree.toggleExpand(true, dir) {
		t.Fatal("expand should be accepted")
	}
	tree.cleanCache(true)

	// The flag clears and the deferred loader starts inside the same
	// critical section, so no accepted expand can stay queued forever.
	if tree.refreshing.Load() {
		t.Error("refreshing flag should clear inside the refresh path")
	}
	tree.mu.Lock()
	if len(tree.deferred) != 0 {
		t.Errorf("deferred loaders = %d, want 0 (flushed)", len(tree.deferred))
	}
	if _, ok := tree.tasks[hashPath(dir)]; !ok {
		t.Error("deferred loader should be registered and running")
	}
	tree.mu.Unlock()

	if res := awaitResult(t, tree); !res.ok || res.path != dir {
		t.Errorf("result = %+v, want listing for %q", res, dir)
	}
}

func TestRefreshReentrant(t *testing.T) {
	tree := newTestTree(t, nil)
	tree.Refresh()
	tree.Refresh() // second call while the first may still run is ignored
	tree.refreshWG.Wait()
	if tree.refreshing.Load() {
		t.Error("refreshing flag should clear once the refresh finishes")
	}
}

func TestCloseIdempotent(t *testing.T) {
	tree := newTestTree(t, nil)
	if err := tree.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tree.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

// --- Labels ---

func TestNodeLabel(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name string
		path string
		want string
	}{
		{"mount root", MountRoot, mountRootLabel},
		{"filesystem root", sep, sep},
		{"nested directory", filepath.Join(sep, "home", "fern"), "fern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nodeLabel(tt.path); got != tt.want {
				t.Errorf("nodeLabel(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
