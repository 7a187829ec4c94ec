package parser

import (
	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Name: p.curToken.Lexeme, Rng: rangeOf(p.curToken)}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.Literal{Kind: ast.LiteralNumber, Text: p.curToken.Lexeme, Rng: rangeOf(p.curToken)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.Literal{Kind: ast.LiteralString, Text: p.curToken.Lexeme, Rng: rangeOf(p.curToken)}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.Literal{Kind: ast.LiteralBool, Bool: p.curTokenIs(token.TRUE), Rng: rangeOf(p.curToken)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.Literal{Kind: ast.LiteralNil, Rng: rangeOf(p.curToken)}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	start := rangeOf(p.curToken)
	op := p.curToken.Lexeme
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.Unary{Op: op, Operand: operand, Rng: span.Merge(start, operand.Range())}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	op := p.curToken.Lexeme
	precedence := p.curPrecedence()
	// '..' and '^' are right-associative.
	if p.curTokenIs(token.CONCAT) || p.curTokenIs(token.CARET) {
		precedence--
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.Binary{Op: op, Left: left, Right: right, Rng: span.Merge(left.Range(), right.Range())}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	start := rangeOf(p.curToken)
	p.nextToken()

	grouped := &ast.Grouped{}
	if p.curTokenIs(token.RPAREN) {
		grouped.Rng = span.Merge(start, rangeOf(p.curToken))
		return grouped
	}

	grouped.Exprs = append(grouped.Exprs, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		grouped.Exprs = append(grouped.Exprs, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RPAREN) {
		grouped.Rng = span.Merge(start, rangeOf(p.curToken))
		return grouped
	}
	grouped.Rng = span.Merge(start, rangeOf(p.curToken))

	// A single parenthesized expression stays wrapped in a one-element
	// Grouped; the checker gives it the type of that sub-expression, and
	// a multi-value (Group) type inside is not truncated to one value.
	if len(grouped.Exprs) == 1 {
		return grouped
	}
	return grouped
}

func (p *Parser) parseTableLiteral() ast.Expression {
	start := rangeOf(p.curToken)
	table := &ast.Table{}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		entry := p.parseTableEntry()
		table.Entries = append(table.Entries, entry)

		if p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.SEMI) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
		break
	}

	table.Rng = span.Merge(start, rangeOf(p.curToken))
	return table
}

func (p *Parser) parseTableEntry() ast.TableEntry {
	if p.curTokenIs(token.LBRACKET) {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		p.expectPeek(token.RBRACKET)
		p.expectPeek(token.ASSIGN)
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return ast.TableEntry{Key: key, Value: value}
	}

	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
		key := &ast.Identifier{Name: p.curToken.Lexeme, Rng: rangeOf(p.curToken)}
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return ast.TableEntry{Key: key, Value: value}
	}

	value := p.parseExpression(LOWEST)
	return ast.TableEntry{Value: value}
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	start := rangeOf(p.curToken)
	lit := &ast.FunctionLit{}

	if !p.expectPeek(token.LPAREN) {
		return lit
	}
	lit.Params = p.parseParamList()

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		retStart := rangeOf(p.curToken)
		p.nextToken()
		lit.Return = p.parseTypeExpr()
		lit.ReturnRng = span.Merge(retStart, rangeOf(p.curToken))
	}

	p.nextToken()
	lit.Body = p.parseBlock(token.END)
	lit.Rng = span.Merge(start, rangeOf(p.curToken))
	return lit
}

func (p *Parser) parseRequireExpression() ast.Expression {
	start := rangeOf(p.curToken)
	req := &ast.Require{}

	if !p.expectPeek(token.LPAREN) {
		req.Rng = span.Merge(start, rangeOf(p.curToken))
		return req
	}
	if !p.expectPeek(token.STRING) {
		req.Rng = span.Merge(start, rangeOf(p.curToken))
		return req
	}
	req.Name = p.curToken.Lexeme
	p.expectPeek(token.RPAREN)
	req.Rng = span.Merge(start, rangeOf(p.curToken))
	return req
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	start := callee.Range()
	args := &ast.Grouped{Rng: rangeOf(p.curToken)}
	argsStart := rangeOf(p.curToken)

	p.nextToken()
	if !p.curTokenIs(token.RPAREN) {
		args.Exprs = append(args.Exprs, p.parseExpression(LOWEST))
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			args.Exprs = append(args.Exprs, p.parseExpression(LOWEST))
		}
		p.expectPeek(token.RPAREN)
	}
	args.Rng = span.Merge(argsStart, rangeOf(p.curToken))

	return &ast.Call{Callee: callee, Args: args, Rng: span.Merge(start, rangeOf(p.curToken))}
}

func (p *Parser) parseMemberExpression(base ast.Expression) ast.Expression {
	start := base.Range()
	if !p.expectPeek(token.IDENT) {
		return base
	}
	return &ast.Member{Base: base, Name: p.curToken.Lexeme, Rng: span.Merge(start, rangeOf(p.curToken))}
}

func (p *Parser) parseIndexExpression(base ast.Expression) ast.Expression {
	start := base.Range()
	bracketRng := rangeOf(p.curToken)
	p.nextToken()
	key := p.parseExpression(LOWEST)
	p.expectPeek(token.RBRACKET)
	return &ast.Index{
		Base: base, Key: key,
		BracketRng: span.Merge(bracketRng, rangeOf(p.curToken)),
		Rng:        span.Merge(start, rangeOf(p.curToken)),
	}
}
