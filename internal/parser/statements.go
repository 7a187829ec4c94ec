package parser

import (
	"github.com/tylua/tylua/internal/ast"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/span"
	"github.com/tylua/tylua/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.SEMI:
		return &ast.Empty{Rng: rangeOf(p.curToken)}
	case token.LOCAL:
		if p.peekTokenIs(token.FUNCTION) {
			return p.parseFunctionStatement(true)
		}
		return p.parseLocalStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FUNCTION:
		return p.parseFunctionStatement(false)
	case token.RETURN:
		return p.parseReturnStatement()
	case token.TYPE:
		return p.parseTypeDeclStatement()
	case token.BREAK:
		tok := p.curToken
		return &ast.Break{Rng: rangeOf(tok)}
	case token.CONTINUE:
		tok := p.curToken
		return &ast.Continue{Rng: rangeOf(tok)}
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

// parseBlock parses statements until it sees one of the given
// terminator keywords, leaving curToken on the terminator.
func (p *Parser) parseBlock(terminators ...token.TokenType) *ast.Block {
	start := rangeOf(p.curToken)
	block := &ast.Block{}
	for !p.isTerminator(terminators) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	block.Rng = span.Merge(start, rangeOf(p.curToken))
	return block
}

func (p *Parser) isTerminator(terminators []token.TokenType) bool {
	for _, t := range terminators {
		if p.curTokenIs(t) {
			return true
		}
	}
	return false
}

func (p *Parser) parseLocalStatement() ast.Statement {
	start := rangeOf(p.curToken)
	stmt := &ast.Local{}

	for {
		if !p.expectPeek(token.IDENT) {
			return stmt
		}
		v := &ast.Var{Name: p.curToken.Lexeme, Rng: rangeOf(p.curToken)}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			v.Annotation = p.parseTypeExpr()
		}
		stmt.Vars = append(stmt.Vars, v)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Inits = append(stmt.Inits, p.parseExpression(LOWEST))
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			stmt.Inits = append(stmt.Inits, p.parseExpression(LOWEST))
		}
	}

	stmt.Rng = span.Merge(start, rangeOf(p.curToken))
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := rangeOf(p.curToken)
	stmt := &ast.If{}

	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(token.THEN) {
		return stmt
	}
	p.nextToken()
	stmt.Then = p.parseBlock(token.ELSEIF, token.ELSE, token.END)

	for p.curTokenIs(token.ELSEIF) {
		elseifStart := rangeOf(p.curToken)
		p.nextToken()
		cond := p.parseExpression(LOWEST)
		if !p.expectPeek(token.THEN) {
			return stmt
		}
		p.nextToken()
		then := p.parseBlock(token.ELSEIF, token.ELSE, token.END)
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{
			Cond: cond, Then: then,
			Rng: span.Merge(elseifStart, rangeOf(p.curToken)),
		})
	}

	if p.curTokenIs(token.ELSE) {
		p.nextToken()
		stmt.Else = p.parseBlock(token.END)
	}

	stmt.Rng = span.Merge(start, rangeOf(p.curToken))
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := rangeOf(p.curToken)
	stmt := &ast.While{}

	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(token.DO) {
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseBlock(token.END)
	stmt.Rng = span.Merge(start, rangeOf(p.curToken))
	return stmt
}

func (p *Parser) parseRepeatStatement() ast.Statement {
	start := rangeOf(p.curToken)
	stmt := &ast.Repeat{}

	p.nextToken()
	stmt.Body = p.parseBlock(token.UNTIL)
	if !p.curTokenIs(token.UNTIL) {
		stmt.Rng = span.Merge(start, rangeOf(p.curToken))
		return stmt
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	stmt.Rng = span.Merge(start, rangeOf(p.curToken))
	return stmt
}

// parseForStatement parses the numeric for loop only; there is no
// generic-for node in the AST.
func (p *Parser) parseForStatement() ast.Statement {
	start := rangeOf(p.curToken)
	stmt := &ast.For{}

	if !p.expectPeek(token.IDENT) {
		return stmt
	}
	name := &ast.Identifier{Name: p.curToken.Lexeme, Rng: rangeOf(p.curToken)}
	if !p.expectPeek(token.ASSIGN) {
		return stmt
	}
	assignStart := rangeOf(p.curToken)
	p.nextToken()
	initExpr := p.parseExpression(LOWEST)
	stmt.Init = &ast.Assign{
		Lhs: []ast.Expression{name},
		Rhs: []ast.Expression{initExpr},
		Rng: span.Merge(assignStart, rangeOf(p.curToken)),
	}

	if !p.expectPeek(token.COMMA) {
		return stmt
	}
	p.nextToken()
	stmt.Limit = p.parseExpression(LOWEST)

	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		stmt.Step = p.parseExpression(LOWEST)
	}

	if !p.expectPeek(token.DO) {
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseBlock(token.END)
	stmt.Rng = span.Merge(start, rangeOf(p.curToken))
	return stmt
}

func (p *Parser) parseFunctionStatement(isLocal bool) ast.Statement {
	start := rangeOf(p.curToken)
	if isLocal {
		p.nextToken() // consume 'local', land on 'function'
	}
	stmt := &ast.FunctionStmt{Local: isLocal}

	if !p.expectPeek(token.IDENT) {
		return stmt
	}
	stmt.Name = p.curToken.Lexeme

	if p.peekTokenIs(token.LT) {
		p.nextToken()
		stmt.Generics = p.parseGenericParamList()
	}

	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	stmt.Params = p.parseParamList()

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		retStart := rangeOf(p.curToken)
		p.nextToken()
		stmt.Return = p.parseTypeExpr()
		stmt.ReturnRng = span.Merge(retStart, rangeOf(p.curToken))
	}

	p.nextToken()
	stmt.Body = p.parseBlock(token.END)
	stmt.Rng = span.Merge(start, rangeOf(p.curToken))
	return stmt
}

func (p *Parser) parseGenericParamList() []string {
	var names []string
	p.nextToken() // consume '<'
	for !p.curTokenIs(token.GT) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.IDENT) {
			names = append(names, p.curToken.Lexeme)
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}
	return names
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	for {
		if p.curTokenIs(token.VARARG) {
			params = append(params, &ast.Param{Name: "...", Variadic: true, Rng: rangeOf(p.curToken)})
		} else if p.curTokenIs(token.IDENT) {
			param := &ast.Param{Name: p.curToken.Lexeme, Rng: rangeOf(p.curToken)}
			if p.peekTokenIs(token.COLON) {
				p.nextToken()
				p.nextToken()
				param.Annotation = p.parseTypeExpr()
			}
			params = append(params, param)
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	p.expectPeek(token.RPAREN)
	p.checkVariadicPlacement(params)
	return params
}

// checkVariadicPlacement enforces that `...` appears at most once in
// params and only as the last element.
func (p *Parser) checkVariadicPlacement(params []*ast.Param) {
	count := 0
	for i, param := range params {
		if !param.Variadic {
			continue
		}
		count++
		if i != len(params)-1 {
			p.sink.Error(diagnostics.ExpectedVariadic, param.Rng, params[i+1].Name)
		}
	}
	if count > 1 {
		last := params[len(params)-1]
		p.sink.Error(diagnostics.ExpectedVariadic, last.Rng, "...")
	}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := rangeOf(p.curToken)
	stmt := &ast.Return{}

	if p.peekTokenIs(token.END) || p.peekTokenIs(token.ELSE) || p.peekTokenIs(token.ELSEIF) ||
		p.peekTokenIs(token.UNTIL) || p.peekTokenIs(token.SEMI) || p.peekTokenIs(token.EOF) {
		stmt.Rng = span.Merge(start, rangeOf(p.curToken))
		return stmt
	}

	p.nextToken()
	stmt.Values = append(stmt.Values, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		stmt.Values = append(stmt.Values, p.parseExpression(LOWEST))
	}

	stmt.Rng = span.Merge(start, rangeOf(p.curToken))
	return stmt
}

func (p *Parser) parseTypeDeclStatement() ast.Statement {
	start := rangeOf(p.curToken)
	stmt := &ast.TypeDecl{}

	if !p.expectPeek(token.IDENT) {
		return stmt
	}
	stmt.Name = p.curToken.Lexeme

	if p.peekTokenIs(token.LT) {
		p.nextToken()
		stmt.Generics = p.parseGenericParamList()
	}

	if !p.expectPeek(token.ASSIGN) {
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseTypeExpr()
	stmt.Rng = span.Merge(start, rangeOf(p.curToken))
	return stmt
}

// parseExpressionOrAssignStatement handles both a bare expression
// statement (a call) and the `lhs1, ... = rhs1, ...` assignment form,
// disambiguated by scanning ahead for '=' or ',' at the statement head.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	start := rangeOf(p.curToken)
	first := p.parseExpression(LOWEST)
	p.attachAssignAnnotation(first)

	if p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.ASSIGN) {
		lhs := []ast.Expression{first}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			target := p.parseExpression(LOWEST)
			p.attachAssignAnnotation(target)
			lhs = append(lhs, target)
		}
		if !p.expectPeek(token.ASSIGN) {
			return &ast.ExpressionStmt{Expr: first, Rng: span.Merge(start, rangeOf(p.curToken))}
		}
		p.nextToken()
		rhs := []ast.Expression{p.parseExpression(LOWEST)}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			rhs = append(rhs, p.parseExpression(LOWEST))
		}
		return &ast.Assign{Lhs: lhs, Rhs: rhs, Rng: span.Merge(start, rangeOf(p.curToken))}
	}

	return &ast.ExpressionStmt{Expr: first, Rng: span.Merge(start, rangeOf(p.curToken))}
}

// attachAssignAnnotation consumes a trailing `: type` after a bare
// identifier on an assignment's left-hand side: the annotated
// identifier assignment-target form (`x: number = 1`). No-op for any
// other target shape or when no colon follows.
func (p *Parser) attachAssignAnnotation(target ast.Expression) {
	id, ok := target.(*ast.Identifier)
	if !ok || !p.peekTokenIs(token.COLON) {
		return
	}
	p.nextToken()
	p.nextToken()
	id.Annotation = p.parseTypeExpr()
}
