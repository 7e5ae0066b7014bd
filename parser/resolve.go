package parser

import "github.com/garnish-lang/garnish-go/token"

// ParseTokens runs classification followed by resolution, the full parser
// pipeline from a token stream to a tree (spec.md §4.2, §4.3).
func ParseTokens(toks []token.Token) (*Tree, error) {
	nodes, groups, err := Classify(toks)
	if err != nil {
		return nil, err
	}
	return Resolve(nodes, groups)
}

// Resolve rewrites the classified node vector's parent/left/right links into
// a proper tree, honoring the precedence table (spec.md §4.3). nodes and
// groups are the output of Classify.
func Resolve(nodes []Node, groups []GroupSpan) (*Tree, error) {
	for _, level := range precedence {
		bucket := make([]int, 0, 4)
		for i, n := range nodes {
			if _, ok := level[n.Classification]; ok {
				bucket = append(bucket, i)
			}
		}
		anyRightAssoc := false
		for _, spec := range level {
			if spec.rightAssoc {
				anyRightAssoc = true
				break
			}
		}
		if anyRightAssoc {
			reverse(bucket)
		}
		for _, idx := range bucket {
			spec := level[nodes[idx].Classification]
			resolveOne(nodes, idx, spec)
		}
	}

	for _, g := range groups {
		first := NoIndex
		for i := g.Opener + 1; i < g.Closer; i++ {
			if nodes[i].Classification != NoOp {
				first = i
				break
			}
		}
		if first == NoIndex {
			continue
		}
		root := walkUpToRoot(nodes, first)
		nodes[g.Opener].Right = root
		nodes[root].Parent = g.Opener
	}

	root := NoIndex
	for i, n := range nodes {
		if n.Classification == NoOp {
			continue
		}
		root = walkUpToRoot(nodes, i)
		break
	}

	return &Tree{Nodes: nodes, Root: root}, nil
}

func resolveOne(nodes []Node, idx int, spec opSpec) {
	switch spec.kind {
	case binary:
		left := NoIndex
		if nodes[idx].Left != NoIndex {
			left = walkUpToRoot(nodes, nodes[idx].Left)
		}
		right := NoIndex
		if nodes[idx].Right != NoIndex {
			right = walkUpToRoot(nodes, nodes[idx].Right)
		}
		nodes[idx].Left = left
		nodes[idx].Right = right
		if left != NoIndex {
			nodes[left].Parent = idx
		}
		if right != NoIndex {
			nodes[right].Parent = idx
		}
	case unaryLeft:
		right := NoIndex
		if nodes[idx].Right != NoIndex {
			right = walkUpToRoot(nodes, nodes[idx].Right)
		}
		nodes[idx].Left = NoIndex
		nodes[idx].Right = right
		if right != NoIndex {
			nodes[right].Parent = idx
		}
	case unaryRight:
		left := NoIndex
		if nodes[idx].Left != NoIndex {
			left = walkUpToRoot(nodes, nodes[idx].Left)
		}
		nodes[idx].Right = NoIndex
		nodes[idx].Left = left
		if left != NoIndex {
			nodes[left].Parent = idx
		}
	}
}

// walkUpToRoot follows Parent links from idx until it finds a node with no
// parent yet — the true subtree root on that side, splicing correctly above
// any chain of already-attached, tighter-binding operators (spec.md §4.3).
func walkUpToRoot(nodes []Node, idx int) int {
	cur := idx
	for nodes[cur].Parent != NoIndex {
		cur = nodes[cur].Parent
	}
	return cur
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
