package term

// Literal is an atom: a predicate applied to an ordered argument list. The
// four variants below are the only legal ones; Op, Args and SetOp are total
// over them via the package-level functions, never via a type assertion
// scattered through calling code.
type Literal interface {
	isLiteral()
}

// TypePredicate is a unary atom `(subject, type, classTerm)`. Its operator is
// classTerm; its argument list is [subject], unless second-order mode is
// requested and classTerm is itself unbound (Variable or BlankNode), in
// which case the argument list is [subject, classTerm].
type TypePredicate struct {
	Subject Term
	Class   Term
}

func (*TypePredicate) isLiteral() {}

// GenericTriple is a binary atom `(subject, predicate, object)`. Its operator
// is predicate, its arguments [subject, object] — unless predicate is itself
// a Variable or BlankNode, in which case the operator is that variable and
// the argument list becomes [predicate, subject, object].
type GenericTriple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (*GenericTriple) isLiteral() {}

// Builtin is a named binary function, e.g. a N3-style comparison builtin.
// Its arguments are [Argument, Result].
type Builtin struct {
	URI      string
	Argument Term
	Result   Term
}

func (*Builtin) isLiteral() {}

// Existential transparently delegates Op/Args/SetOp to the wrapped literal.
// It models an existentially-quantified formula (e.g. `Exists ?X (...)`).
type Existential struct {
	Formula Literal
}

func (*Existential) isLiteral() {}

// HeadLiteral marks a literal as occurring in clause-head position. This
// replaces a mutable `isHead` attribute on the literal itself (see Design
// Notes: the transient flag becomes a wrapper variant, not a mutable field)
// so that the same underlying literal value can be shared, read-only,
// between the head and a body occurrence without aliasing surprises.
type HeadLiteral struct {
	Literal
}

func (HeadLiteral) isLiteral() {}

// unwrap peels away Existential and HeadLiteral wrappers to reach the literal
// that actually carries operator/argument information.
func unwrap(l Literal) Literal {
	for {
		switch v := l.(type) {
		case *Existential:
			l = v.Formula
		case HeadLiteral:
			l = v.Literal
		default:
			return l
		}
	}
}

// Op returns the literal's operator term. It is total over the four
// supported variants (plus their Existential/HeadLiteral wrappers).
func Op(l Literal) Term {
	switch v := unwrap(l).(type) {
	case *TypePredicate:
		return v.Class
	case *GenericTriple:
		return v.Predicate
	case *Builtin:
		return Constant{Value: v.URI}
	default:
		panic(ErrUnsupportedTermKind)
	}
}

// Args returns the literal's ordered argument list. secondOrder controls
// whether a variable/blank node in the class position of a TypePredicate is
// folded into the argument list. A GenericTriple whose predicate is a
// variable/blank node always lists it first, whatever secondOrder says.
func Args(l Literal, secondOrder bool) []Term {
	switch v := unwrap(l).(type) {
	case *TypePredicate:
		if secondOrder && (IsVariable(v.Class) || isBlankNode(v.Class)) {
			return []Term{v.Subject, v.Class}
		}
		return []Term{v.Subject}
	case *GenericTriple:
		if IsVariable(v.Predicate) || isBlankNode(v.Predicate) {
			return []Term{v.Predicate, v.Subject, v.Object}
		}
		return []Term{v.Subject, v.Object}
	case *Builtin:
		return []Term{v.Argument, v.Result}
	default:
		panic(ErrUnsupportedTermKind)
	}
}

// Variables returns the subset of Args that are unbound — Variable or
// BlankNode terms — in argument order. Binding-flow analysis in pkg/sip
// treats blank nodes as existential variables for the purpose of deciding
// what an arc carries, so both kinds are included here.
func Variables(l Literal, secondOrder bool) []Term {
	args := Args(l, secondOrder)
	vars := make([]Term, 0, len(args))
	for _, a := range args {
		if IsVariable(a) || isBlankNode(a) {
			vars = append(vars, a)
		}
	}
	return vars
}

// SetOp mutates the literal's operator in place. It returns
// ErrUnsupportedTermKind for any literal kind that has no writable operator
// position reachable after unwrapping.
func SetOp(l Literal, newOp Term) error {
	switch v := unwrap(l).(type) {
	case *TypePredicate:
		v.Class = newOp
		return nil
	case *GenericTriple:
		v.Predicate = newOp
		return nil
	case *Builtin:
		c, ok := newOp.(Constant)
		if !ok {
			return ErrUnsupportedTermKind
		}
		v.URI = c.Value
		return nil
	default:
		return ErrUnsupportedTermKind
	}
}

func isBlankNode(t Term) bool {
	_, ok := t.(BlankNode)
	return ok
}
