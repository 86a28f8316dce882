package filesystem

import (
	"sort"
	"sync"

	"github.com/brettbedarf/memfs"
	"github.com/puzpuzpuz/xsync/v4"
)

// Node is an entry in the namespace tree: either a directory with children
// or a file referring to a payload in the arena.
//
// Single child lookups are lock-free through the xsync map. Compound changes
// (check then insert, check empty then remove) hold mu for writing.
type Node struct {
	name     string
	mu       sync.RWMutex
	removed  bool                      // Protected by mu; set once the node is unlinked from its parent
	children *xsync.Map[string, *Node] // nil for files
	fileID   FileID                    // 0 for directories
	*Inode
}

// NewDirNode creates a detached directory Node
func NewDirNode(name string, inode *Inode) *Node {
	return &Node{
		name:     name,
		Inode:    inode,
		children: xsync.NewMap[string, *Node](),
	}
}

// NewFileNode creates a detached file Node whose contents live in the arena
// under id
func NewFileNode(name string, inode *Inode, id FileID) *Node {
	return &Node{
		name:   name,
		Inode:  inode,
		fileID: id,
	}
}

// Name returns the node's immutable name
func (n *Node) Name() string {
	return n.name
}

// IsDir reports whether the node is a directory
func (n *Node) IsDir() bool {
	return n.children != nil
}

// FileID returns the arena id of a file node; 0 for directories
func (n *Node) FileID() FileID {
	return n.fileID
}

// Type returns the node type
func (n *Node) Type() memfs.NodeType {
	if n.IsDir() {
		return memfs.DirNodeType
	}
	return memfs.FileNodeType
}

// GetChild returns a child node.
// Safe to call when Node is already locked
func (n *Node) GetChild(name string) (child *Node, ok bool) {
	if n.children == nil {
		return nil, false
	}
	return n.children.Load(name)
}

// addChildLocked stores child under its name. Caller must hold n.mu.Lock().
func (n *Node) addChildLocked(child *Node) {
	n.children.Store(child.name, child)
}

// removeChildLocked unlinks the named child and marks it removed.
// Caller must hold n.mu.Lock() and the child's mu.Lock().
func (n *Node) removeChildLocked(child *Node) {
	n.children.Delete(child.name)
	child.removed = true
}

// ChildCount returns the number of entries of a directory
func (n *Node) ChildCount() int {
	if n.children == nil {
		return 0
	}
	return n.children.Size()
}

// removedLocked reports whether n was unlinked. Caller must hold n.mu.
func (n *Node) removedLocked() bool {
	return n.removed
}

// SortedChildren returns the children of a directory ordered by name
func (n *Node) SortedChildren() []*Node {
	if n.children == nil {
		return nil
	}
	children := make([]*Node, 0, n.children.Size())
	n.children.Range(func(_ string, ch *Node) bool {
		children = append(children, ch)
		return true
	})
	sort.Slice(children, func(i, j int) bool {
		return children[i].name < children[j].name
	})
	return children
}
