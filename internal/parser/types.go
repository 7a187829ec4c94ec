package parser

import (
	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/token"
)

// parseTypeExpr parses a surface type expression. curToken is the first
// token of the type on entry; it is left on the type's last token.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch p.curToken.Type {
	case token.NIL:
		return &ast.TypeNil{Rng: rangeOf(p.curToken)}
	case token.IDENT:
		return p.parseNamedOrGenericType()
	case token.FUNCTION:
		return p.parseFunctionType()
	case token.LBRACE:
		return p.parseTableType()
	case token.LPAREN:
		return p.parseGroupType()
	default:
		p.noPrefixParseFnError(p.curToken.Type)
		return &ast.TypeNil{Rng: rangeOf(p.curToken)}
	}
}

func (p *Parser) parseNamedOrGenericType() ast.TypeExpr {
	start := rangeOf(p.curToken)
	name := p.curToken.Lexeme

	if p.peekTokenIs(token.LT) {
		p.nextToken()
		p.nextToken()
		g := &ast.TypeGeneric{Name: name}
		g.Args = append(g.Args, p.parseTypeExpr())
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			g.Args = append(g.Args, p.parseTypeExpr())
		}
		p.expectPeek(token.GT)
		g.Rng = span.Merge(start, rangeOf(p.curToken))
		return g
	}

	return &ast.TypeName{Name: name, Rng: start}
}

func (p *Parser) parseFunctionType() ast.TypeExpr {
	start := rangeOf(p.curToken)
	ft := &ast.TypeFunction{}

	if !p.expectPeek(token.LPAREN) {
		ft.Rng = span.Merge(start, rangeOf(p.curToken))
		return ft
	}

	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		for {
			if p.curTokenIs(token.VARARG) {
				ft.Variadic = true
				p.nextToken()
				continue
			}
			ft.Params = append(ft.Params, p.parseTypeExpr())
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
	}
	p.expectPeek(token.RPAREN)

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		ft.Return = p.parseTypeExpr()
	}

	ft.Rng = span.Merge(start, rangeOf(p.curToken))
	return ft
}

func (p *Parser) parseTableType() ast.TypeExpr {
	start := rangeOf(p.curToken)
	tt := &ast.TypeTable{}
	p.nextToken()

	if p.curTokenIs(token.RBRACE) {
		tt.Rng = span.Merge(start, rangeOf(p.curToken))
		return tt
	}

	// Bare array form: `{T}`.
	if !(p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON)) {
		tt.Array = p.parseTypeExpr()
		p.expectPeek(token.RBRACE)
		tt.Rng = span.Merge(start, rangeOf(p.curToken))
		return tt
	}

	for {
		if !p.curTokenIs(token.IDENT) {
			break
		}
		fieldName := p.curToken.Lexeme
		if !p.expectPeek(token.COLON) {
			break
		}
		p.nextToken()
		fieldType := p.parseTypeExpr()
		tt.Fields = append(tt.Fields, ast.TypeTableField{Name: fieldName, Type: fieldType})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	p.expectPeek(token.RBRACE)
	tt.Rng = span.Merge(start, rangeOf(p.curToken))
	return tt
}

func (p *Parser) parseGroupType() ast.TypeExpr {
	start := rangeOf(p.curToken)
	g := &ast.TypeGroup{}
	p.nextToken()

	if p.curTokenIs(token.RPAREN) {
		g.Rng = span.Merge(start, rangeOf(p.curToken))
		return g
	}

	g.Types = append(g.Types, p.parseTypeExpr())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		g.Types = append(g.Types, p.parseTypeExpr())
	}
	p.expectPeek(token.RPAREN)
	g.Rng = span.Merge(start, rangeOf(p.curToken))
	return g
}
