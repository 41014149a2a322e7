// Package tree renders parsed documents as collapsible trees.
//
// Every branch node owns its expanded flag. The flags are seeded from a
// shared View when the node is created and re-seeded whenever the view's
// default flag or reset signal changes, which is how expand-all and
// collapse-all override nodes that were toggled individually.
package tree

import "sync"

// View is the document-wide expansion context observed by every node.
type View struct {
	mu              sync.Mutex
	defaultExpanded bool
	reset           int
	observers       map[*Node]struct{}
}

// NewView returns a view whose nodes start expanded when defaultExpanded
// is true.
func NewView(defaultExpanded bool) *View {
	return &View{
		defaultExpanded: defaultExpanded,
		observers:       make(map[*Node]struct{}),
	}
}

// DefaultExpanded is the state new and reset nodes take.
func (v *View) DefaultExpanded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.defaultExpanded
}

// ResetSignal is incremented once per expand-all or collapse-all.
func (v *View) ResetSignal() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reset
}

// ExpandAll makes every branch expanded, including individually collapsed
// ones.
func (v *View) ExpandAll() {
	v.update(true, true)
}

// CollapseAll makes every branch collapsed, including individually
// expanded ones.
func (v *View) CollapseAll() {
	v.update(false, true)
}

// SetDefaultExpanded changes the default without bumping the reset
// signal. Nodes re-seed only when the value actually changes.
func (v *View) SetDefaultExpanded(expanded bool) {
	v.update(expanded, false)
}

func (v *View) update(expanded, bump bool) {
	v.mu.Lock()
	changed := v.defaultExpanded != expanded
	v.defaultExpanded = expanded
	if bump {
		v.reset++
	}
	if !changed && !bump {
		v.mu.Unlock()
		return
	}
	nodes := make([]*Node, 0, len(v.observers))
	for n := range v.observers {
		nodes = append(nodes, n)
	}
	v.mu.Unlock()

	for _, n := range nodes {
		if !v.observing(n) {
			// Released by an ancestor that collapsed earlier in this pass.
			continue
		}
		n.resync(expanded)
	}
}

func (v *View) subscribe(n *Node) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observers[n] = struct{}{}
	return v.defaultExpanded
}

func (v *View) unsubscribe(n *Node) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.observers, n)
}

func (v *View) observing(n *Node) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.observers[n]
	return ok
}

// Observers is the number of live branch nodes.
func (v *View) Observers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}
