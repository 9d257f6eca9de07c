package issue

import "sort"

// ThreadNode is a comment with its replies, each level ordered by creation time.
type ThreadNode struct {
	Comment *Comment
	Replies []*ThreadNode
}

// BuildThread arranges a flat comment list into a tree by grouping on parent id.
// Comments whose parent is not in the list are promoted to the top level.
// Siblings are ordered by (createdAt, id) ascending.
func BuildThread(comments []*Comment) []*ThreadNode {
	known := make(map[uint]struct{}, len(comments))
	for _, c := range comments {
		known[c.ID()] = struct{}{}
	}

	children := make(map[uint][]*Comment, len(comments))
	var roots []*Comment
	for _, c := range comments {
		parentID := c.ParentID()
		if parentID == nil {
			roots = append(roots, c)
			continue
		}
		if _, ok := known[*parentID]; !ok {
			roots = append(roots, c)
			continue
		}
		children[*parentID] = append(children[*parentID], c)
	}

	visited := make(map[uint]struct{}, len(comments))
	var build func(level []*Comment) []*ThreadNode
	build = func(level []*Comment) []*ThreadNode {
		sortChronologically(level)
		nodes := make([]*ThreadNode, 0, len(level))
		for _, c := range level {
			// parent pointers are acyclic by construction; the guard keeps bad data from looping
			if _, seen := visited[c.ID()]; seen {
				continue
			}
			visited[c.ID()] = struct{}{}
			nodes = append(nodes, &ThreadNode{
				Comment: c,
				Replies: build(children[c.ID()]),
			})
		}
		return nodes
	}

	return build(roots)
}

// SubtreeIDs returns rootID and the ids of every comment below it.
func SubtreeIDs(comments []*Comment, rootID uint) []uint {
	children := make(map[uint][]uint, len(comments))
	for _, c := range comments {
		if p := c.ParentID(); p != nil {
			children[*p] = append(children[*p], c.ID())
		}
	}

	ids := []uint{rootID}
	seen := map[uint]struct{}{rootID: {}}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			ids = append(ids, child)
		}
	}
	return ids
}

func sortChronologically(comments []*Comment) {
	sort.SliceStable(comments, func(a, b int) bool {
		ca, cb := comments[a], comments[b]
		if !ca.CreatedAt().Equal(cb.CreatedAt()) {
			return ca.CreatedAt().Before(cb.CreatedAt())
		}
		return ca.ID() < cb.ID()
	})
}
