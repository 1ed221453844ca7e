package rowan

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
)

// DirTree is a Frame specialized into an asynchronous directory browser.
//
// Rows live in a flattened pre-order sequence: every directory's children
// form one contiguous run at the next nest level, immediately after it.
// Expanding a node inserts a "Loading..." placeholder and spawns a loader
// goroutine; results come back through one shared channel drained at the
// start of each Update, so all tree mutation happens on the update
// goroutine. Collapsing soft-deletes the descendant run and fixes the
// layout immediately; a background sweep compacts the sequence later under
// the tree mutex. Listings are cached on disk (see DiskCache) and the cache
// is dropped by Refresh or Close.
type DirTree struct {
	Frame

	face        text.Face
	entryHeight float64

	cache *DiskCache
	log   *zap.Logger

	// mu guards nodes, the task registry, the scheduled add/delete/reload
	// work, and the selection. Held briefly at the start of every Update
	// and by the compaction sweep and refresh goroutines. Row fields (the
	// positions, deleted and selected flags) are read by Frame dispatch
	// without mu, so background goroutines never write them: they queue
	// work that runScheduledLocked applies on the update goroutine.
	mu       sync.Mutex
	nodes    []treeEntry
	tasks    map[uint64]*loaderTask
	orphans  []*loaderTask // cancelled but possibly still running; joined on refresh
	deferred []*loaderTask // spawned while a refresh was active

	pendingAdd    []Widget
	pendingDel    []string
	haveDeleted   bool
	reloadPending bool

	selectedPath string
	onSelect     func(string)
	onReveal     func(string)

	results chan loadResult

	refreshing atomic.Bool
	sweeping   atomic.Bool
	refreshWG  sync.WaitGroup
	closed     bool

	readMods func() KeyModifiers
	mods     KeyModifiers

	nameSeq uint64
}

// NewDirTree creates a directory browser rooted at the virtual mount root,
// with both scrollbars attached. onSelect fires once per newly selected
// path; it may be nil.
func NewDirTree(name string, x, y, w, h float64, face text.Face, entryHeight, scrollWidth float64, onSelect func(string)) (*DirTree, error) {
	cache, err := NewDiskCache()
	if err != nil {
		return nil, err
	}
	d := &DirTree{
		Frame:        *NewFrame(name, x, y, w, h, scrollWidth),
		face:         face,
		entryHeight:  entryHeight,
		cache:        cache,
		log:          zap.NewNop(),
		tasks:        map[uint64]*loaderTask{},
		selectedPath: MountRoot,
		onSelect:     onSelect,
		results:      make(chan loadResult, 128),
		readMods:     ReadModifiers,
	}
	d.Background = ColorWhite

	root := newDirNode(d, 0, 0, 0, MountRoot, true)
	if err := d.Frame.Add(root); err != nil {
		return nil, err
	}
	d.nodes = []treeEntry{root}

	if err := d.Frame.Add(NewScrollBar("!vscroll", scrollWidth, Vertical, true)); err != nil {
		return nil, err
	}
	if err := d.Frame.Add(NewScrollBar("!hscroll", scrollWidth, Horizontal, true)); err != nil {
		return nil, err
	}
	return d, nil
}

// SetLogger routes loader and refresh diagnostics to l.
func (d *DirTree) SetLogger(l *zap.Logger) {
	if l != nil {
		d.log = l
	}
}

// SetRevealAction installs the action fired by a Control-click on a row,
// typically "open in the system file manager".
func (d *DirTree) SetRevealAction(f func(path string)) { d.onReveal = f }

// SelectedPath returns the currently selected absolute path.
func (d *DirTree) SelectedPath() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectedPath
}

// setParent inherits the parent's occlusion layer instead of rejecting the
// default.
func (d *DirTree) setParent(f *Frame) error {
	if err := d.Frame.setParent(f); err != nil {
		return err
	}
	d.Z = f.Z
	return nil
}

// Update applies scheduled node adds/removals, drains loader results, and
// then runs the normal Frame dispatch.
func (d *DirTree) Update(p *Pointer, keys []KeyEvent) {
	d.mods = d.readMods()
	d.mu.Lock()
	d.runScheduledLocked()
	d.drainLocked()
	d.mu.Unlock()
	d.Frame.Update(p, keys)
}

func (d *DirTree) currentMods() KeyModifiers { return d.mods }

func (d *DirTree) reveal(path string) {
	if d.onReveal != nil {
		d.onReveal(path)
	}
}

// freeName returns a widget name that cannot collide with any previous one.
func (d *DirTree) freeName(prefix string) string {
	d.nameSeq++
	return fmt.Sprintf("%s_%d", prefix, d.nameSeq)
}

// locateLocked returns the index of the live directory node for path, or -1.
func (d *DirTree) locateLocked(path string) int {
	for i, n := range d.nodes {
		if dn, ok := n.(*dirNode); ok && dn.path == path && !dn.deleted {
			return i
		}
	}
	return -1
}

// pruneTasksLocked drops registry entries whose goroutines have finished.
func (d *DirTree) pruneTasksLocked() {
	for h, t := range d.tasks {
		select {
		case <-t.done:
			delete(d.tasks, h)
		default:
		}
	}
	kept := d.orphans[:0]
	for _, t := range d.orphans {
		select {
		case <-t.done:
		default:
			kept = append(kept, t)
		}
	}
	d.orphans = kept
}

// cancelTaskLocked cancels any live loader for path and moves it to the
// orphan list so a later refresh still joins it.
func (d *DirTree) cancelTaskLocked(path string) {
	h := hashPath(path)
	t, ok := d.tasks[h]
	if !ok {
		return
	}
	t.cancel()
	d.orphans = append(d.orphans, t)
	delete(d.tasks, h)
}

// toggleExpand is the node-arrow callback. It reports whether the request
// was accepted; a rejected request leaves the arrow unchanged.
//
// Expanding inserts the placeholder row and spawns (or defers, during a
// refresh) a loader. Collapsing cancels any in-flight loader, soft-deletes
// the contiguous descendant run, and pulls the selection up to the
// collapsed node if it was inside the run.
func (d *DirTree) toggleExpand(expand bool, path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneTasksLocked()
	if expand {
		return d.expandLocked(path)
	}
	return d.collapseLocked(path)
}

func (d *DirTree) expandLocked(path string) bool {
	h := hashPath(path)
	if t, ok := d.tasks[h]; ok && t.live() {
		return false
	}
	i := d.locateLocked(path)
	if i == -1 {
		return false
	}
	parent := d.nodes[i].(*dirNode)

	for k := i + 1; k < len(d.nodes); k++ {
		d.nodes[k].shiftY(d.entryHeight)
	}
	ph := newTextNode(d, parent.X+treeIndent, parent.Y+d.entryHeight, parent.nest+1, "Loading...")
	d.nodes = append(d.nodes, nil)
	copy(d.nodes[i+2:], d.nodes[i+1:])
	d.nodes[i+1] = ph
	d.pendingAdd = append(d.pendingAdd, ph)

	task := newLoaderTask(path)
	if d.refreshing.Load() {
		d.deferred = append(d.deferred, task)
	} else {
		d.tasks[h] = task
		go task.run(d.cache, d.results, d.log)
	}
	return true
}

func (d *DirTree) collapseLocked(path string) bool {
	d.cancelTaskLocked(path)
	i := d.locateLocked(path)
	if i == -1 {
		return false
	}
	parent := d.nodes[i].(*dirNode)
	selIdx := d.locateLocked(d.selectedPath)

	j := i + 1
	for j < len(d.nodes) && d.nodes[j].nestLevel() > parent.nest {
		n := d.nodes[j]
		if dn, ok := n.(*dirNode); ok {
			d.cancelTaskLocked(dn.path)
		}
		d.pendingDel = append(d.pendingDel, n.Name())
		n.markDeleted()
		j++
	}
	shift := float64(i+1-j) * d.entryHeight
	for k := j; k < len(d.nodes); k++ {
		d.nodes[k].shiftY(shift)
	}
	if selIdx >= i+1 && selIdx < j {
		d.selectedPath = path
		parent.setSelected(true)
	}
	if j > i+1 {
		d.haveDeleted = true
	}
	return true
}

// registerSelection is the node-body callback: it moves the highlight and
// fires onSelect, but only for a path that was not already selected.
func (d *DirTree) registerSelection(path string) {
	d.mu.Lock()
	if d.selectedPath == path {
		d.mu.Unlock()
		return
	}
	if i := d.locateLocked(d.selectedPath); i != -1 {
		d.nodes[i].(*dirNode).setSelected(false)
	}
	d.selectedPath = path
	cb := d.onSelect
	d.mu.Unlock()
	if cb != nil {
		cb(path)
	}
}

// runScheduledLocked applies work queued by callbacks and the refresh
// goroutine: a pending tree rebuild first (it feeds the add/delete lists),
// then node adds and removals, then the compaction sweep if needed. Frame
// dispatch and rendering read row positions and flags without the tree
// mutex, so every row mutation must funnel through here.
func (d *DirTree) runScheduledLocked() {
	if d.reloadPending {
		d.reloadPending = false
		d.reloadLocked()
	}
	for _, w := range d.pendingAdd {
		if err := d.Frame.Add(w); err != nil {
			d.log.Error("tree row add failed", zap.Error(err))
		}
	}
	d.pendingAdd = nil
	for _, name := range d.pendingDel {
		d.Frame.Delete(name) //nolint:errcheck // row may have been swept already
	}
	d.pendingDel = nil

	if d.haveDeleted && d.sweeping.CompareAndSwap(false, true) {
		d.haveDeleted = false
		go d.sweepNodes()
	}
}

// sweepNodes physically removes soft-deleted rows from the sequence.
func (d *DirTree) sweepNodes() {
	d.mu.Lock()
	kept := d.nodes[:0]
	for _, n := range d.nodes {
		if !n.isDeleted() {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(d.nodes); i++ {
		d.nodes[i] = nil
	}
	d.nodes = kept
	d.mu.Unlock()
	d.sweeping.Store(false)
}

// drainLocked empties the result channel, applying each delivery.
func (d *DirTree) drainLocked() {
	for {
		select {
		case res := <-d.results:
			d.applyResultLocked(res)
		default:
			return
		}
	}
}

// applyResultLocked folds one loader result into the tree. Results for
// paths that were collapsed or removed in the meantime are detected by the
// placeholder-identity check and dropped.
func (d *DirTree) applyResultLocked(res loadResult) {
	i := d.locateLocked(res.path)
	if i == -1 {
		return // collapsed or removed while loading
	}
	parent := d.nodes[i].(*dirNode)
	li := i + 1
	if li >= len(d.nodes) {
		return
	}
	ph, ok := d.nodes[li].(*textNode)
	if !ok || ph.deleted {
		return // stale result
	}
	if !res.ok {
		ph.changeText("Error")
		return
	}

	shift := float64(len(res.dirs)-1) * d.entryHeight
	for k := li + 1; k < len(d.nodes); k++ {
		d.nodes[k].shiftY(shift)
	}
	d.Frame.Delete(ph.Name()) //nolint:errcheck // placeholder is always attached here

	childNest := parent.nest + 1
	run := make([]treeEntry, 0, len(res.dirs))
	for idx, dir := range res.dirs {
		child := newDirNode(d, float64(childNest)*treeIndent,
			parent.Y+float64(idx+1)*d.entryHeight, childNest, dir, false)
		if err := d.Frame.Add(child); err != nil {
			d.log.Error("tree row add failed", zap.Error(err))
			continue
		}
		run = append(run, child)
	}
	d.nodes = append(d.nodes[:li], append(run, d.nodes[li+1:]...)...)
}

// Refresh clears the disk cache on a background goroutine and schedules a
// rebuild of the expanded portion of the tree, applied at the start of the
// next Update. Re-entrant calls while a refresh is already running are
// ignored.
func (d *DirTree) Refresh() {
	if !d.refreshing.CompareAndSwap(false, true) {
		return
	}
	d.refreshWG.Add(1)
	go func() {
		defer d.refreshWG.Done()
		d.cleanCache(true)
	}()
}

// Close joins any running refresh, joins all loaders, and deletes the cache
// directory. The tree must not be updated afterwards.
func (d *DirTree) Close() error {
	d.refreshWG.Wait()
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()
	d.cleanCache(false)
	return nil
}

// cleanCache is the shared refresh/shutdown path: join every loader so none
// is touching the cache directory, discard undelivered results, then wipe
// the cache. A user refresh schedules a re-scan of the expanded tree for
// the next Update so the UI stays populated; the shutdown path removes the
// directory outright. The refreshing flag clears and the deferred loaders
// start inside one critical section, so an expand blocked on the mutex
// either lands on the deferred list before the flush or spawns directly
// after it; none is left queued forever.
func (d *DirTree) cleanCache(user bool) {
	d.mu.Lock()
	join := make([]*loaderTask, 0, len(d.tasks)+len(d.orphans))
	for _, t := range d.tasks {
		join = append(join, t)
	}
	join = append(join, d.orphans...)
	d.mu.Unlock()
	for _, t := range join {
		t.join()
	}

	drained := false
	for !drained {
		select {
		case <-d.results:
		default:
			drained = true
		}
	}

	d.mu.Lock()
	d.tasks = map[uint64]*loaderTask{}
	d.orphans = nil
	if user {
		d.log.Info("cache refresh started", zap.String("dir", d.cache.Dir()))
		d.cache.Clear()
		d.reloadPending = true
		d.refreshing.Store(false)
	} else if err := d.cache.Remove(); err != nil {
		d.log.Warn("cache removal failed", zap.Error(err))
	}
	for _, t := range d.deferred {
		d.tasks[hashPath(t.path)] = t
		go t.run(d.cache, d.results, d.log)
	}
	d.deferred = nil
	d.mu.Unlock()
}

// scanNoErr lists a directory for the refresh re-walk, treating failure and
// emptiness alike.
func (d *DirTree) scanNoErr(path string) []string {
	if path == MountRoot {
		mounts, err := listMounts()
		if err != nil {
			return nil
		}
		return mounts
	}
	return d.cache.scanQuiet(path)
}

// reloadLocked rebuilds the node sequence from fresh scans of every
// expanded directory. Existing rows are reused (keeping their expansion and
// selection state) when their path still exists; vanished rows and all
// placeholders are scheduled for removal, and new directories get new rows.
// Rows snap to uniform grid positions, which also absorbs any layout drift.
//
// Runs only on the update goroutine (via runScheduledLocked): it moves and
// marks live rows, and dispatch reads those fields without the tree mutex.
func (d *DirTree) reloadLocked() {
	old := make(map[string]*dirNode, len(d.nodes))
	for _, n := range d.nodes {
		if dn, ok := n.(*dirNode); ok && !dn.deleted {
			if _, dup := old[dn.path]; !dup {
				old[dn.path] = dn
			}
		}
	}

	reused := make(map[string]bool, len(old))
	next := make([]treeEntry, 0, len(d.nodes))
	var place func(n *dirNode, nest int)
	place = func(n *dirNode, nest int) {
		n.SetPosition(float64(nest)*treeIndent, float64(len(next))*d.entryHeight)
		reused[n.path] = true
		next = append(next, n)
		if !n.expanded {
			return
		}
		for _, child := range d.scanNoErr(n.path) {
			cn, ok := old[child]
			if !ok || reused[child] {
				cn = newDirNode(d, 0, 0, nest+1, child, false)
				d.pendingAdd = append(d.pendingAdd, cn)
			}
			place(cn, nest+1)
		}
	}
	root := d.nodes[0].(*dirNode)
	place(root, 0)

	for _, n := range d.nodes {
		if dn, ok := n.(*dirNode); ok && reused[dn.path] {
			continue
		}
		if !n.isDeleted() {
			n.markDeleted()
			d.pendingDel = append(d.pendingDel, n.Name())
		}
	}
	d.nodes = next

	if !reused[d.selectedPath] {
		d.selectedPath = root.path
		root.setSelected(true)
	}
}
