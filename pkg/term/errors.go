package term

import "errors"

// ErrUnsupportedTermKind is returned by SetOp when called on a literal
// variant that has no writable operator position (currently: none of the
// defined variants reject SetOp outright, but a HeadLiteral wrapping an
// unrecognized inner literal does).
var ErrUnsupportedTermKind = errors.New("term: unsupported literal kind for setOp")
