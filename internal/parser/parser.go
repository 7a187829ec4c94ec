// Package parser implements a Pratt parser (prefix/infix tables plus a
// precedence table) producing the AST the checker consumes. The
// grammar is Lua-family: no package/import/trait/instance/match
// surface, statements driven by keyword lookahead rather than newline
// tokens.
package parser

import (
	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/pipeline"
	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/token"
)

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

const (
	LOWEST = iota
	OR_PREC
	AND_PREC
	EQUALS
	LESSGREATER
	CONCAT_PREC
	SUM
	PRODUCT
	UNARY
	POWER
	CALL
	INDEX
)

var precedences = map[token.TokenType]int{
	token.OR:       OR_PREC,
	token.AND:      AND_PREC,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:       LESSGREATER,
	token.GTE:       LESSGREATER,
	token.CONCAT:    CONCAT_PREC,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.DSLASH:    PRODUCT,
	token.PERCENT:   PRODUCT,
	token.CARET:     POWER,
	token.LPAREN:    CALL,
	token.LBRACE:    CALL,
	token.DOT:       CALL,
	token.LBRACKET:  INDEX,
}

// Parser holds the state of the parser: a two-token lookahead window
// over a pipeline.TokenStream.
type Parser struct {
	stream    pipeline.TokenStream
	curToken  token.Token
	peekToken token.Token
	sink      *diagnostics.Sink

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(stream pipeline.TokenStream, sink *diagnostics.Sink) *Parser {
	p := &Parser{stream: stream, sink: sink}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NIL, p.parseNilLiteral)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.NOT, p.parseUnaryExpression)
	p.registerPrefix(token.HASH, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACE, p.parseTableLiteral)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(token.REQUIRE, p.parseRequireExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.DSLASH,
		token.PERCENT, token.CARET, token.CONCAT, token.EQ, token.NOT_EQ,
		token.LT, token.GT, token.LTE, token.GTE, token.AND, token.OR,
	} {
		p.registerInfix(t, p.parseBinaryExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	peeked := p.stream.Peek(1)
	if len(peeked) > 0 {
		p.peekToken = peeked[0]
	} else {
		p.peekToken = token.Token{Type: token.EOF}
	}
	p.stream.Next()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.sink.Error(diagnostics.MismatchedTypes, rangeOf(p.peekToken), string(t), string(p.peekToken.Type))
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	p.sink.Error(diagnostics.MismatchedTypes, rangeOf(p.curToken), "expression", string(t))
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

// rangeOf builds a zero-width Range from a single token's position.
func rangeOf(tok token.Token) span.Range {
	pos := span.Position{Line: tok.Line, Column: tok.Column}
	return span.Range{Start: pos, End: pos}
}

// ParseProgram parses the full token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	start := rangeOf(p.curToken)
	prog := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}
	prog.Rng = span.Merge(start, rangeOf(p.curToken))
	return prog
}
