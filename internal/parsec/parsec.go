// Package parsec provides backtracking, PEG-style parser combinator
// primitives over a token cursor: a result type with three outcomes (Ok,
// Backtracked, Err), combinators that compose parsers generically, and a
// sequence builder with explicit commit points so the first tokens of a
// grammar item unambiguously select it.
package parsec

import (
	"fmt"

	"github.com/dis-lang/disc/internal/diag"
	"github.com/dis-lang/disc/internal/lexer"
)

// Status is the outcome of running a parser.
type Status int

const (
	// Ok means parsing succeeded; the cursor advanced.
	Ok Status = iota
	// Backtracked means parsing failed softly; the cursor was restored and
	// the caller should try an alternative.
	Backtracked
	// Err means parsing failed after a commit point; the cursor is not
	// restored and alternatives must not be tried.
	Err
)

// Result is what every parser produces.
type Result[T any] struct {
	Status Status
	Value  T
	Errors []diag.Diagnostic
}

// OkResult builds a successful result.
func OkResult[T any](value T) Result[T] {
	return Result[T]{Status: Ok, Value: value}
}

// BacktrackResult builds a soft-failure result.
func BacktrackResult[T any]() Result[T] {
	return Result[T]{Status: Backtracked}
}

// ErrResult builds a hard-failure result.
func ErrResult[T any](errs ...diag.Diagnostic) Result[T] {
	return Result[T]{Status: Err, Errors: errs}
}

// Cursor walks a token stream with save/restore for backtracking.
type Cursor struct {
	Tokens []lexer.Token
	Index  int
}

// NewCursor wraps a token slice (expected to end with an Eof token).
func NewCursor(tokens []lexer.Token) *Cursor {
	return &Cursor{Tokens: tokens}
}

// Has reports whether the cursor is not at Eof.
func (c *Cursor) Has() bool {
	return c.Index < len(c.Tokens) && c.Tokens[c.Index].Kind != lexer.KindEof
}

// Peek returns the current token without consuming it.
func (c *Cursor) Peek() lexer.Token {
	if c.Index < len(c.Tokens) {
		return c.Tokens[c.Index]
	}
	return c.Tokens[len(c.Tokens)-1]
}

// Take consumes and returns the current token.
func (c *Cursor) Take() lexer.Token {
	t := c.Peek()
	c.Index++
	return t
}

// Prev returns the most recently consumed token.
func (c *Cursor) Prev() lexer.Token {
	if c.Index == 0 {
		return c.Peek()
	}
	return c.Tokens[c.Index-1]
}

// Save returns a position marker to Restore to on backtrack.
func (c *Cursor) Save() int {
	return c.Index
}

// Restore resets the cursor to a previously saved position.
func (c *Cursor) Restore(mark int) {
	c.Index = mark
}

// Parser is a function from a cursor and a backtracking flag to a Result.
// When backtracking is true, a soft failure must return Backtracked instead
// of Err, so an enclosing Alternative can try another branch.
type Parser[T any] func(c *Cursor, backtracking bool) Result[T]

// Map transforms a successful result's value; failures pass through.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(c *Cursor, backtracking bool) Result[U] {
		r := p(c, backtracking)
		if r.Status != Ok {
			return Result[U]{Status: r.Status, Errors: r.Errors}
		}
		return OkResult(f(r.Value))
	}
}

// AndThen flat-maps a successful result into another parser's result.
func AndThen[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(c *Cursor, backtracking bool) Result[U] {
		r := p(c, backtracking)
		if r.Status != Ok {
			return Result[U]{Status: r.Status, Errors: r.Errors}
		}
		return f(r.Value)(c, backtracking)
	}
}

// Alternative tries left with backtracking forced on; if it backtracks,
// the cursor is restored and right is tried with the caller's flag.
func Alternative[T any](left, right Parser[T]) Parser[T] {
	return func(c *Cursor, backtracking bool) Result[T] {
		mark := c.Save()
		r := left(c, true)
		if r.Status == Ok || r.Status == Err {
			return r
		}
		c.Restore(mark)
		return right(c, backtracking)
	}
}

// Any tries each parser in order, left to right.
func Any[T any](parsers ...Parser[T]) Parser[T] {
	p := parsers[len(parsers)-1]
	for i := len(parsers) - 2; i >= 0; i-- {
		p = Alternative(parsers[i], p)
	}
	return p
}

// Repeat parses zero-or-more (or, with minimum>0, at-least-minimum)
// occurrences of p.
func Repeat[T any](p Parser[T], minimum int) Parser[[]T] {
	return func(c *Cursor, backtracking bool) Result[[]T] {
		mark := c.Save()
		var values []T
		for {
			if !c.Has() {
				break
			}
			bt := backtracking
			if len(values) >= minimum {
				bt = true
			}
			r := p(c, bt)
			switch r.Status {
			case Ok:
				values = append(values, r.Value)
			case Backtracked:
				goto done
			default:
				return Result[[]T]{Status: Err, Errors: r.Errors}
			}
		}
	done:
		if len(values) < minimum {
			c.Restore(mark)
			return BacktrackResult[[]T]()
		}
		return OkResult(values)
	}
}

// Interspersed parses p separated by sep, at least minimum times, allowing
// an optional trailing separator.
func Interspersed[T, S any](p Parser[T], sep Parser[S], minimum int) Parser[[]T] {
	return func(c *Cursor, backtracking bool) Result[[]T] {
		mark := c.Save()
		var values []T
		for {
			bt := backtracking
			if len(values) >= minimum {
				bt = true
			}
			item := p(c, bt)
			switch item.Status {
			case Ok:
				values = append(values, item.Value)
			case Backtracked:
				if len(values) < minimum {
					c.Restore(mark)
					return Result[[]T]{Status: Backtracked, Errors: item.Errors}
				}
				return OkResult(values)
			default:
				return Result[[]T]{Status: Err, Errors: item.Errors}
			}

			bt = true
			s := sep(c, bt)
			switch s.Status {
			case Ok:
				continue
			case Backtracked:
				return OkResult(values)
			default:
				return Result[[]T]{Status: Err, Errors: s.Errors}
			}
		}
	}
}

// Optional succeeds with def when p backtracks; an Err from p is passed
// through unchanged.
func Optional[T any](p Parser[T], def T) Parser[T] {
	return func(c *Cursor, backtracking bool) Result[T] {
		r := p(c, true)
		if r.Status == Backtracked {
			return OkResult(def)
		}
		return r
	}
}

// Recursive ties the knot for mutually recursive grammar productions: fn
// is only called on the first parse, so the parser it builds can refer to
// itself (or a peer production) before that peer's own Recursive has
// returned.
func Recursive[T any](fn func() Parser[T]) Parser[T] {
	var cached Parser[T]
	return func(c *Cursor, backtracking bool) Result[T] {
		if cached == nil {
			cached = fn()
		}
		return cached(c, backtracking)
	}
}

// ExpectKind succeeds when the current token has the given kind, consuming it.
func ExpectKind(kind lexer.Kind) Parser[lexer.Token] {
	return func(c *Cursor, backtracking bool) Result[lexer.Token] {
		if c.Has() && c.Peek().Kind == kind {
			return OkResult(c.Take())
		}
		if backtracking {
			return BacktrackResult[lexer.Token]()
		}
		found := c.Peek()
		msg := fmt.Sprintf("expected %s, found %s", kind, describeToken(found))
		return ErrResult[lexer.Token](diag.New(diag.CategoryParse, found.Location, msg))
	}
}

// ExpectEof succeeds only at the end of the token stream.
func ExpectEof() Parser[struct{}] {
	return func(c *Cursor, backtracking bool) Result[struct{}] {
		if !c.Has() {
			return OkResult(struct{}{})
		}
		if backtracking {
			return BacktrackResult[struct{}]()
		}
		found := c.Peek()
		msg := fmt.Sprintf("expected <eof>, found %s", describeToken(found))
		return ErrResult[struct{}](diag.New(diag.CategoryParse, found.Location, msg))
	}
}

// Fail always fails: Backtracked while backtracking, Err (naming what was
// expected) otherwise. Useful as the last arm of an Any chain.
func Fail[T any](expected string) Parser[T] {
	return func(c *Cursor, backtracking bool) Result[T] {
		if backtracking {
			return BacktrackResult[T]()
		}
		found := c.Peek()
		msg := fmt.Sprintf("expected %s, found %s", expected, describeToken(found))
		return ErrResult[T](diag.New(diag.CategoryParse, found.Location, msg))
	}
}

// Not succeeds (consuming nothing) only when p fails to match.
func Not[T any](p Parser[T]) Parser[struct{}] {
	return func(c *Cursor, backtracking bool) Result[struct{}] {
		mark := c.Save()
		r := p(c, false)
		if r.Status == Ok {
			c.Restore(mark)
			if backtracking {
				return BacktrackResult[struct{}]()
			}
			found := c.Peek()
			msg := fmt.Sprintf("unexpected token %s", describeToken(found))
			return ErrResult[struct{}](diag.New(diag.CategoryParse, found.Location, msg))
		}
		c.Restore(mark)
		return OkResult(struct{}{})
	}
}

// Supply always succeeds, producing f() without consuming input.
func Supply[T any](f func() T) Parser[T] {
	return func(c *Cursor, backtracking bool) Result[T] {
		return OkResult(f())
	}
}

// Nothing always succeeds with the zero value, without consuming input.
func Nothing[T any]() Parser[T] {
	return func(c *Cursor, backtracking bool) Result[T] {
		var zero T
		return OkResult(zero)
	}
}

func describeToken(t lexer.Token) string {
	if t.Kind == lexer.KindEof {
		return "<eof>"
	}
	return t.Text
}
