package grovedb

import (
	"fmt"
	"io"
)

// Debug and visualization helpers. These take pin-only guards and no
// latches, so output taken during concurrent mutation may be torn; use them
// on a quiesced tree.

// PrintTree writes an indented dump of every page to w.
func (t *BPlusTree) PrintTree(w io.Writer) error {
	rootID, err := t.RootPageID()
	if err != nil {
		return err
	}
	if rootID == InvalidPageID {
		fmt.Fprintln(w, "(empty)")
		return nil
	}
	return t.printPage(w, rootID, 0)
}

func (t *BPlusTree) printPage(w io.Writer, id PageID, depth int) error {
	guard, err := t.pool.FetchBasic(id)
	if err != nil {
		return err
	}
	defer guard.Drop()

	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	if guard.Page().IsLeaf() {
		leaf := guard.Page().AsLeaf()
		fmt.Fprintf(w, "%sleaf %d next=%d keys=[", indent, id, int64(leaf.NextPageID()))
		for i := 0; i < leaf.Size(); i++ {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%d", leaf.KeyAt(i).Int64())
		}
		fmt.Fprintln(w, "]")
		return nil
	}

	node := guard.Page().AsInternal()
	fmt.Fprintf(w, "%sinternal %d slots=[", indent, id)
	for i := 0; i < node.Size(); i++ {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		if i == 0 {
			fmt.Fprintf(w, "_:%d", node.ValueAt(i))
		} else {
			fmt.Fprintf(w, "%d:%d", node.KeyAt(i).Int64(), node.ValueAt(i))
		}
	}
	fmt.Fprintln(w, "]")

	for i := 0; i < node.Size(); i++ {
		if err := t.printPage(w, node.ValueAt(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// DrawDot writes the tree as a graphviz digraph to w.
func (t *BPlusTree) DrawDot(w io.Writer) error {
	empty, err := t.IsEmpty()
	if err != nil {
		return err
	}
	if empty {
		t.log.Warn("drawing an empty tree", "tree", t.name)
		fmt.Fprintln(w, "digraph G {}")
		return nil
	}

	rootID, err := t.RootPageID()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "digraph G {")
	fmt.Fprintln(w, "  node [shape=record];")
	if err := t.dotPage(w, rootID); err != nil {
		return err
	}
	fmt.Fprintln(w, "}")
	return nil
}

func (t *BPlusTree) dotPage(w io.Writer, id PageID) error {
	guard, err := t.pool.FetchBasic(id)
	if err != nil {
		return err
	}
	defer guard.Drop()

	if guard.Page().IsLeaf() {
		leaf := guard.Page().AsLeaf()
		fmt.Fprintf(w, "  leaf%d [label=\"P%d", id, id)
		for i := 0; i < leaf.Size(); i++ {
			fmt.Fprintf(w, "|%d", leaf.KeyAt(i).Int64())
		}
		fmt.Fprintln(w, "\" color=green];")
		if next := leaf.NextPageID(); next != InvalidPageID {
			fmt.Fprintf(w, "  leaf%d -> leaf%d;\n", id, next)
			fmt.Fprintf(w, "  {rank=same leaf%d leaf%d};\n", id, next)
		}
		return nil
	}

	node := guard.Page().AsInternal()
	fmt.Fprintf(w, "  int%d [label=\"P%d", id, id)
	for i := 1; i < node.Size(); i++ {
		fmt.Fprintf(w, "|%d", node.KeyAt(i).Int64())
	}
	fmt.Fprintln(w, "\" color=pink];")

	for i := 0; i < node.Size(); i++ {
		childID := node.ValueAt(i)
		childGuard, err := t.pool.FetchBasic(childID)
		if err != nil {
			return err
		}
		childIsLeaf := childGuard.Page().IsLeaf()
		childGuard.Drop()

		if childIsLeaf {
			fmt.Fprintf(w, "  int%d -> leaf%d;\n", id, childID)
		} else {
			fmt.Fprintf(w, "  int%d -> int%d;\n", id, childID)
		}
		if err := t.dotPage(w, childID); err != nil {
			return err
		}
	}
	return nil
}
