package btree

import "fmt"

// splitLeaf is called when an insert has grown a leaf's entries beyond
// capacity. entries is the full sorted entry list (including the new
// one); path is the root-to-leaf path with leafID as its last element.
func (t *Tree) splitLeaf(leafID uint32, entries []leafEntry, path []uint32) error {
	mid := len(entries) / 2
	leftEntries, rightEntries := entries[:mid], entries[mid:]

	leftPage, err := t.readPage(leafID)
	if err != nil {
		return err
	}
	_, oldNext := readLeafHeader(leftPage)

	rightID, err := t.allocPage()
	if err != nil {
		return err
	}
	rightPage := make([]byte, PageSize)
	leafWriteAll(rightPage, rightEntries, oldNext)
	if err := t.writePage(rightID, rightPage); err != nil {
		return err
	}

	leafWriteAll(leftPage, leftEntries, rightID)
	if err := t.writePage(leafID, leftPage); err != nil {
		return err
	}

	sepKey := rightEntries[0].Key
	return t.insertIntoParent(leafID, rightID, sepKey, path)
}

// insertIntoParent links a freshly split child (leftID, rightID,
// separated by sepKey) into its parent, found via path (path's last
// element is leftID). If the parent overflows it is split in turn,
// cascading upward until some ancestor has room or a new root is made.
func (t *Tree) insertIntoParent(leftID, rightID uint32, sepKey int32, path []uint32) error {
	if len(path) == 1 {
		return t.newRoot(leftID, rightID, sepKey)
	}

	parentID := path[len(path)-2]
	parentPage, err := t.readPage(parentID)
	if err != nil {
		return err
	}
	children, keys := internalReadAll(parentPage)

	pos := -1
	for i, c := range children {
		if c == leftID {
			pos = i
			break
		}
	}
	if pos == -1 {
		return fmt.Errorf("btree: internal page %d does not reference child %d", parentID, leftID)
	}

	children = append(children, 0)
	copy(children[pos+2:], children[pos+1:])
	children[pos+1] = rightID

	keys = append(keys, 0)
	copy(keys[pos+1:], keys[pos:])
	keys[pos] = sepKey

	if len(keys) <= maxInternalKeys() {
		internalWriteAll(parentPage, children, keys)
		return t.writePage(parentID, parentPage)
	}

	return t.splitInternal(parentID, children, keys, path[:len(path)-1])
}

// splitInternal splits an overfull internal node. The middle key is
// promoted to the parent rather than copied into either half, per
// standard B+ tree internal-node splitting.
func (t *Tree) splitInternal(nodeID uint32, children []uint32, keys []int32, path []uint32) error {
	mid := len(keys) / 2
	promoted := keys[mid]

	leftKeys := keys[:mid]
	leftChildren := children[:mid+1]
	rightKeys := keys[mid+1:]
	rightChildren := children[mid+1:]

	leftPage := make([]byte, PageSize)
	internalWriteAll(leftPage, leftChildren, leftKeys)
	if err := t.writePage(nodeID, leftPage); err != nil {
		return err
	}

	rightID, err := t.allocPage()
	if err != nil {
		return err
	}
	rightPage := make([]byte, PageSize)
	internalWriteAll(rightPage, rightChildren, rightKeys)
	if err := t.writePage(rightID, rightPage); err != nil {
		return err
	}

	return t.insertIntoParent(nodeID, rightID, promoted, path)
}

func (t *Tree) newRoot(leftID, rightID uint32, sepKey int32) error {
	rootID, err := t.allocPage()
	if err != nil {
		return err
	}
	rootPage := make([]byte, PageSize)
	internalWriteAll(rootPage, []uint32{leftID, rightID}, []int32{sepKey})
	if err := t.writePage(rootID, rootPage); err != nil {
		return err
	}
	t.rootPageID = rootID
	return t.writeFileHeader()
}
