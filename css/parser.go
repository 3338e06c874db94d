package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser builds lossless stylesheet trees: every byte of the input ends up
// either in a node field or in its raws, so writing unmodified tree back
// produces original text.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseError describes malformed input which cannot be represented in the
// tree without losing text.
type ParseError struct {
	File   string
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Reason)
}

type token struct {
	tt     css.TokenType
	text   string
	offset int
}

type parser struct {
	data      []byte
	toks      []token
	pos       int
	src       *Source
	semicolon bool
}

// Parse parses CSS text into a tree. File is recorded as the source of every
// node and is later used by path based filters, it may be empty.
func (p *Parser) Parse(data []byte, file string) (*Root, error) {
	p.log.Debug("Parsing CSS", zap.String("source", file), zap.Int("bytes", len(data)))

	toks, err := tokenize(data)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize %q: %w", file, err)
	}

	root := NewRoot(file)
	st := &parser{data: data, toks: toks, src: root.Source}
	if err := st.body(root); err != nil {
		p.log.Debug("CSS parse error", zap.String("source", file), zap.Error(err))
		return nil, err
	}
	return root, nil
}

func tokenize(data []byte) ([]token, error) {
	l := css.NewLexer(parse.NewInput(bytes.NewReader(data)))

	var (
		toks   []token
		offset int
	)
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		toks = append(toks, token{tt: tt, text: string(text), offset: offset})
		offset += len(text)
	}
}

func (st *parser) errorAt(offset int, reason string) error {
	line, col := 1, 1
	for _, b := range st.data[:min(offset, len(st.data))] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{File: st.src.File, Line: line, Column: col, Reason: reason}
}

func (st *parser) add(parent Container, n Node, before string) {
	b := n.base()
	b.parent = parent
	b.Source = st.src
	n.Raws()[RawBefore] = before
	if n.Type() != CommentNode {
		st.semicolon = false
	}
	l := parent.list()
	l.Nodes = append(l.Nodes, n)
}

// body parses children of cur until closing brace (or end of input for
// root).
func (st *parser) body(cur Container) error {
	_, isRoot := cur.(*Root)
	if cur.list().Nodes == nil {
		cur.list().Nodes = []Node{}
	}

	var spaces strings.Builder
	for {
		if st.pos >= len(st.toks) {
			if !isRoot {
				return st.errorAt(len(st.data), "unclosed block")
			}
			st.end(cur, spaces.String())
			return nil
		}

		t := st.toks[st.pos]
		switch t.tt {
		case css.WhitespaceToken, css.CDOToken, css.CDCToken, css.SemicolonToken:
			spaces.WriteString(t.text)
			st.pos++

		case css.CommentToken:
			c, err := st.comment(t)
			if err != nil {
				return err
			}
			st.add(cur, c, spaces.String())
			spaces.Reset()
			st.pos++

		case css.RightBraceToken:
			if isRoot {
				return st.errorAt(t.offset, "unexpected }")
			}
			st.pos++
			st.end(cur, spaces.String())
			return nil

		case css.AtKeywordToken:
			if err := st.atRule(cur, spaces.String()); err != nil {
				return err
			}
			spaces.Reset()

		default:
			if err := st.other(cur, spaces.String()); err != nil {
				return err
			}
			spaces.Reset()
		}
	}
}

func (st *parser) end(cur Container, after string) {
	raws := cur.Raws()
	raws[RawAfter] = after
	if len(cur.Children()) > 0 {
		if st.semicolon {
			raws[RawSemicolon] = ";"
		} else {
			raws[RawSemicolon] = ""
		}
	}
	st.semicolon = false
}

func (st *parser) comment(t token) (*Comment, error) {
	if len(t.text) < 4 || !strings.HasPrefix(t.text, "/*") || !strings.HasSuffix(t.text, "*/") {
		return nil, st.errorAt(t.offset, "unclosed comment")
	}
	c := &Comment{}
	inner := t.text[2 : len(t.text)-2]
	raws := c.Raws()
	if strings.TrimSpace(inner) == "" {
		raws[RawLeft], raws[RawRight] = inner, ""
		return c, nil
	}
	left, rest := trimSpaceLeft(inner)
	text, right := trimSpaceRight(rest)
	c.Text = text
	raws[RawLeft], raws[RawRight] = left, right
	return c, nil
}

// scan advances to the first top level ';', '{' or '}' (or end of input) and
// returns its token type, ErrorToken signals end of input.
func (st *parser) scan() css.TokenType {
	depth := 0
	for ; st.pos < len(st.toks); st.pos++ {
		switch st.toks[st.pos].tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken, css.SemicolonToken, css.RightBraceToken:
			if depth == 0 {
				return st.toks[st.pos].tt
			}
		}
	}
	return css.ErrorToken
}

func (st *parser) atRule(cur Container, before string) error {
	at := &AtRule{Name: strings.TrimPrefix(st.toks[st.pos].text, "@")}
	st.add(cur, at, before)
	st.pos++

	start := st.pos
	stop := st.scan()
	params := st.toks[start:st.pos]

	raws := at.Raws()
	params, between := splitTrailing(params)
	raws[RawBetween] = between
	if len(params) > 0 {
		var afterName string
		afterName, params = splitLeading(params)
		raws[RawAfterName] = afterName
		at.Params = join(params)
	} else {
		raws[RawAfterName] = ""
	}

	switch stop {
	case css.SemicolonToken:
		st.pos++
		st.semicolon = true
	case css.LeftBraceToken:
		st.pos++
		at.HasBlock = true
		return st.body(at)
	}
	return nil
}

func (st *parser) other(cur Container, before string) error {
	start := st.pos
	switch st.scan() {
	case css.LeftBraceToken:
		selector, between := splitTrailing(st.toks[start:st.pos])
		r := &Rule{Selector: join(selector)}
		st.add(cur, r, before)
		r.Raws()[RawBetween] = between
		st.pos++
		return st.body(r)

	case css.SemicolonToken:
		if err := st.decl(cur, before, st.toks[start:st.pos]); err != nil {
			return err
		}
		st.pos++
		st.semicolon = true
		return nil
	}

	// closing brace or end of input: trailing whitespace and comments belong
	// to the enclosing block
	end := st.pos
	for end > start && isSpaceOrComment(st.toks[end-1].tt) {
		end--
	}
	st.pos = end
	return st.decl(cur, before, st.toks[start:end])
}

func (st *parser) decl(cur Container, before string, toks []token) error {
	colon := -1
	for i, t := range toks {
		if t.tt == css.ColonToken {
			colon = i
			break
		}
	}
	if colon < 0 {
		return st.errorAt(toks[0].offset, fmt.Sprintf("unknown word %q", strings.TrimSpace(join(toks))))
	}

	d := &Declaration{}
	st.add(cur, d, before)

	prop, propTrail := splitTrailing(toks[:colon])
	d.Prop = join(prop)

	lead, value := splitLeading(toks[colon+1:])
	d.Raws()[RawBetween] = propTrail + ":" + lead

	if i := importantAt(value); i >= 0 {
		d.Important = true
		head, spaces := splitTrailing(value[:i])
		d.Raws()[RawImportant] = spaces + join(value[i:])
		value = head
	}

	// whitespace closing an escape belongs to the ident token and stays in
	// value
	end := len(value)
	for end > 0 && value[end-1].tt == css.WhitespaceToken {
		end--
	}
	d.Value = join(value[:end])
	if trail := join(value[end:]); trail != "" {
		d.RawValue = &RawValue{Value: d.Value, Raw: d.Value + trail}
	}
	return nil
}

// importantAt returns index of '!' starting trailing "!important" or -1.
func importantAt(toks []token) int {
	j := len(toks) - 1
	for j >= 0 && toks[j].tt == css.WhitespaceToken {
		j--
	}
	if j < 0 || toks[j].tt != css.IdentToken || !strings.EqualFold(toks[j].text, "important") {
		return -1
	}
	k := j - 1
	for k >= 0 && toks[k].tt == css.WhitespaceToken {
		k--
	}
	if k >= 0 && toks[k].tt == css.DelimToken && toks[k].text == "!" {
		return k
	}
	return -1
}

func isSpaceOrComment(tt css.TokenType) bool {
	return tt == css.WhitespaceToken || tt == css.CommentToken
}

func join(toks []token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.text)
	}
	return sb.String()
}

// splitLeading separates leading whitespace and comments.
func splitLeading(toks []token) (string, []token) {
	i := 0
	for i < len(toks) && isSpaceOrComment(toks[i].tt) {
		i++
	}
	return join(toks[:i]), toks[i:]
}

// splitTrailing separates trailing whitespace and comments.
func splitTrailing(toks []token) ([]token, string) {
	i := len(toks)
	for i > 0 && isSpaceOrComment(toks[i-1].tt) {
		i--
	}
	return toks[:i], join(toks[i:])
}
