package parser

import "github.com/garnish-lang/garnish-go/token"

// NoIndex marks an absent parent/left/right link.
const NoIndex = -1

// Node is one entry in the flat node vector (spec.md §3.3): a classified
// token with provisional, later definitive, parent/left/right links stored
// as indices into the same vector.
type Node struct {
	Token          token.Token
	Classification Classification
	Parent         int
	Left           int
	Right          int
}

// Tree is the output of Parse+Resolve: a flat node vector plus the index of
// its root. Indices are stable across both stages (spec.md §3.3).
type Tree struct {
	Nodes []Node
	Root  int
}

func newNode(tok token.Token, c Classification) Node {
	return Node{Token: tok, Classification: c, Parent: NoIndex, Left: NoIndex, Right: NoIndex}
}
