package ast

// Node is the base interface every AST node and element declaration
// satisfies, mirroring the teacher's ast.Node (TokenLiteral/String/Pos)
// minus TokenLiteral, which is meaningless without this module's own
// lexer.
type Node interface {
	String() string
	Pos() Position
	// Key returns the resolver's memoization key for this node. Element
	// declarations return a zero Unit/Offset/Length and rely on their
	// ElementLocation instead (see Element.Location).
	Key() NodeKey
}

// Expression is any node producing a value (§3, §4.5).
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node performing an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// base is embedded by every concrete node to supply Pos()/Key() from a
// stamped Position and node-kind string, exactly as the teacher embeds a
// lexer.Token in each node for the same purpose.
type base struct {
	Position Position
	Unit     Unit
	Offset   int
	Length   int
	Kind     string
}

func (b base) Pos() Position { return b.Position }

func (b base) Key() NodeKey {
	return NodeKey{Unit: b.Unit, Offset: b.Offset, Length: b.Length, Kind: b.Kind}
}

// Stamp sets the node's source identity: its position plus the
// (unit, offset, length, kind) memoization key. The host parser calls
// this once per node it hands the resolver; two distinct nodes must
// never share a stamped key.
func (b *base) Stamp(unit Unit, pos Position, offset, length int, kind string) {
	b.Unit = unit
	b.Position = pos
	b.Offset = offset
	b.Length = length
	b.Kind = kind
}
