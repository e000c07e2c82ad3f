// Package trie implements the arena-allocated token trie: an ordered AA-tree
// of concrete child hashes per node, plus a sorted list of bounded-gap skip
// edges, all addressed by 32-bit indices rather than pointers so the whole
// structure is a flat, pointer-free blob ready for serialization.
package trie

// nullIndex is the sentinel index shared by both the trees and nodes
// vectors. Index 0 in each vector is reserved for it.
const nullIndex uint32 = 0

// MaxSkip is the largest permitted $skipN gap. Hashes at or below it are
// reserved as skip markers; every real token hash must exceed it.
const MaxSkip = 99

// aaNode is one cell of an AA-tree (Arne Andersson's balanced BST), keyed on
// a child token hash. NextTree is the TrieNode this cell's hash leads to.
type aaNode struct {
	Element  uint64
	Left     uint32
	Right    uint32
	Level    uint16
	NextTree uint32
}

// skipEdge is a single bounded-gap skip transition: consuming 1..N tokens
// from the matched position lands on Child. A node holds at most one edge
// per distinct N, sorted ascending by N.
type skipEdge struct {
	N     uint8
	Child uint32
}

// trieNode is one node of the pattern trie: Pid is the pattern terminating
// here (0 if none), Root is the AA-tree root of this node's concrete
// children, and Skips are its bounded-gap edges.
type trieNode struct {
	Pid   uint32
	Root  uint32
	Skips []skipEdge
}

// Arena is the append-only pair of vectors backing the whole trie. Index 0
// in both Trees and Nodes is the null sentinel; every cross-reference is an
// index into one of these two vectors, never a pointer.
type Arena struct {
	Trees []trieNode
	Nodes []aaNode
}

// NewArena returns an arena containing only the null sentinels.
func NewArena() *Arena {
	return &Arena{
		Trees: []trieNode{{}},
		Nodes: []aaNode{{}},
	}
}

// NewTrieNode appends a fresh, empty TrieNode and returns its index.
func (a *Arena) NewTrieNode() uint32 {
	a.Trees = append(a.Trees, trieNode{})
	return uint32(len(a.Trees) - 1)
}

func (a *Arena) newAANode(element uint64, nextTree uint32) uint32 {
	a.Nodes = append(a.Nodes, aaNode{Element: element, NextTree: nextTree, Level: 1})
	return uint32(len(a.Nodes) - 1)
}

// find walks the AA-tree rooted at root looking for x, returning nullIndex
// if absent. This is the explicit-comparison form of TokenTree::find —
// rather than writing the query into a shared sentinel cell (not
// re-entrant), it compares directly against nullIndex, so the arena is safe
// to query from multiple goroutines once frozen (see Matcher's concurrency
// notes).
func (a *Arena) find(root uint32, x uint64) uint32 {
	cur := root
	for cur != nullIndex {
		switch {
		case x < a.Nodes[cur].Element:
			cur = a.Nodes[cur].Left
		case a.Nodes[cur].Element < x:
			cur = a.Nodes[cur].Right
		default:
			return cur
		}
	}
	return nullIndex
}

func (a *Arena) skew(t uint32) uint32 {
	left := a.Nodes[t].Left
	if left != nullIndex && a.Nodes[left].Level == a.Nodes[t].Level {
		a.Nodes[t].Left = a.Nodes[left].Right
		a.Nodes[left].Right = t
		return left
	}
	return t
}

func (a *Arena) split(t uint32) uint32 {
	right := a.Nodes[t].Right
	if right == nullIndex {
		return t
	}
	rightRight := a.Nodes[right].Right
	if rightRight != nullIndex && a.Nodes[rightRight].Level == a.Nodes[t].Level {
		a.Nodes[t].Right = a.Nodes[right].Left
		a.Nodes[right].Left = t
		a.Nodes[right].Level++
		return right
	}
	return t
}

// aaInsert inserts element (leading to nextTree) into the AA-tree rooted at
// root, returning the new root. Duplicate elements are a no-op: the caller
// should check with find first if it needs to know whether the key already
// existed.
func (a *Arena) aaInsert(root uint32, element uint64, nextTree uint32) uint32 {
	if root == nullIndex {
		return a.newAANode(element, nextTree)
	}
	switch {
	case element < a.Nodes[root].Element:
		left := a.aaInsert(a.Nodes[root].Left, element, nextTree)
		a.Nodes[root].Left = left
	case a.Nodes[root].Element < element:
		right := a.aaInsert(a.Nodes[root].Right, element, nextTree)
		a.Nodes[root].Right = right
	default:
		return root
	}
	root = a.skew(root)
	root = a.split(root)
	return root
}

// ChildOf returns the TrieNode index reached from node by the concrete hash,
// or nullIndex if node has no such child.
func (a *Arena) ChildOf(node uint32, hash uint64) uint32 {
	return a.find(a.Trees[node].Root, hash)
}

// EnsureChild returns the TrieNode index reached from node by hash, creating
// it (and logging nothing — duplicates are simply absent here, never
// re-created) if it does not yet exist.
func (a *Arena) EnsureChild(node uint32, hash uint64) uint32 {
	if c := a.ChildOf(node, hash); c != nullIndex {
		return c
	}
	child := a.NewTrieNode()
	a.Trees[node].Root = a.aaInsert(a.Trees[node].Root, hash, child)
	return child
}

// EnsureSkip returns the TrieNode reached from node via a skip edge of
// length n, creating the edge if it does not yet exist. This is
// check_or_insert_skip: a linear scan of the (short, sorted) skip list.
func (a *Arena) EnsureSkip(node uint32, n uint8) uint32 {
	skips := a.Trees[node].Skips
	for _, e := range skips {
		if e.N == n {
			return e.Child
		}
	}
	child := a.NewTrieNode()
	idx := 0
	for idx < len(skips) && skips[idx].N < n {
		idx++
	}
	next := make([]skipEdge, 0, len(skips)+1)
	next = append(next, skips[:idx]...)
	next = append(next, skipEdge{N: n, Child: child})
	next = append(next, skips[idx:]...)
	a.Trees[node].Skips = next
	return child
}

// Pid returns the pattern id terminating at node, or 0.
func (a *Arena) Pid(node uint32) uint32 { return a.Trees[node].Pid }

// SetPid sets the pattern id terminating at node.
func (a *Arena) SetPid(node uint32, pid uint32) { a.Trees[node].Pid = pid }

// Skips returns the sorted skip edges of node.
func (a *Arena) Skips(node uint32) []skipEdge { return a.Trees[node].Skips }

// TreeCount and NodeCount report the arena's size, including the sentinels;
// used by the serializer.
func (a *Arena) TreeCount() int { return len(a.Trees) }
func (a *Arena) NodeCount() int { return len(a.Nodes) }
