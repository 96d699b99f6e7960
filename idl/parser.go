package idl

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Parser reads and parses IDL files into a module tree
type Parser struct {
	lexer          *lexer
	currentToken   *token
	rootModule     *Module
	currentModule  *Module
	includeHandler func(string) (io.Reader, error)
}

// NewParser creates a new IDL parser
func NewParser() *Parser {
	rootModule := NewModule("")
	return &Parser{
		rootModule:    rootModule,
		currentModule: rootModule,
		includeHandler: func(path string) (io.Reader, error) {
			return nil, fmt.Errorf("include not supported: %s", path)
		},
	}
}

// SetIncludeHandler sets a handler for #include directives
func (p *Parser) SetIncludeHandler(handler func(string) (io.Reader, error)) {
	p.includeHandler = handler
}

// Parse parses an IDL file
func (p *Parser) Parse(reader io.Reader) error {
	p.lexer = newLexer(reader)

	if err := p.nextToken(); err != nil {
		return err
	}

	for p.currentToken.typ != tokenEOF {
		if err := p.parseDefinition(); err != nil {
			return err
		}
	}
	return nil
}

// GetRootModule returns the root module containing all parsed types
func (p *Parser) GetRootModule() *Module {
	return p.rootModule
}

// nextToken advances to the next token
func (p *Parser) nextToken() error {
	var err error
	p.currentToken, err = p.lexer.nextToken()
	return err
}

// expect consumes a token of the given type or fails
func (p *Parser) expect(typ tokenType, what string) error {
	if p.currentToken.typ != typ {
		return fmt.Errorf("expected %s, got %q", what, p.currentToken.value)
	}
	return p.nextToken()
}

// parseDefinition parses one top-level or module-level definition
func (p *Parser) parseDefinition() error {
	if p.currentToken.typ == tokenPreprocessor {
		return p.parsePreprocessor()
	}

	switch p.currentToken.value {
	case "module":
		return p.parseModule()
	case "interface":
		return p.parseInterface()
	case "typedef":
		return p.parseTypedef()
	case "exception":
		return p.parseException()
	case "const":
		return p.parseConst()
	default:
		return fmt.Errorf("unexpected token: %q", p.currentToken.value)
	}
}

// parsePreprocessor handles #include directives; other directives are skipped
func (p *Parser) parsePreprocessor() error {
	directive := p.currentToken.value

	if strings.HasPrefix(directive, "#include") {
		re := regexp.MustCompile(`#include\s+[<"]([^>"]+)[>"]`)
		match := re.FindStringSubmatch(directive)
		if len(match) < 2 {
			return fmt.Errorf("invalid include directive: %s", directive)
		}

		includePath := match[1]
		reader, err := p.includeHandler(includePath)
		if err != nil {
			return fmt.Errorf("failed to handle include %s: %w", includePath, err)
		}

		includeParser := NewParser()
		includeParser.rootModule = p.rootModule
		includeParser.currentModule = p.currentModule
		includeParser.includeHandler = p.includeHandler

		if err := includeParser.Parse(reader); err != nil {
			return fmt.Errorf("failed to parse included file %s: %w", includePath, err)
		}
	}

	return p.nextToken()
}

// parseModule parses an IDL module
func (p *Parser) parseModule() error {
	if err := p.nextToken(); err != nil {
		return err
	}

	if p.currentToken.typ != tokenIdentifier {
		return fmt.Errorf("expected module name, got %q", p.currentToken.value)
	}
	moduleName := p.currentToken.value

	// Reopening an existing module adds to it
	module, exists := p.currentModule.GetSubmodule(moduleName)
	if !exists {
		module = p.currentModule.AddSubmodule(moduleName)
	}

	parentModule := p.currentModule
	p.currentModule = module

	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.expect(tokenOpenBrace, "'{' after module name"); err != nil {
		return err
	}

	for p.currentToken.typ != tokenCloseBrace {
		if p.currentToken.typ == tokenEOF {
			return fmt.Errorf("unexpected end of file in module %s", moduleName)
		}
		if err := p.parseDefinition(); err != nil {
			return err
		}
	}

	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.expect(tokenSemicolon, "';' after module body"); err != nil {
		return err
	}

	p.currentModule = parentModule
	return nil
}

// parseInterface parses an IDL interface declaration
func (p *Parser) parseInterface() error {
	if err := p.nextToken(); err != nil {
		return err
	}

	if p.currentToken.typ != tokenIdentifier {
		return fmt.Errorf("expected interface name, got %q", p.currentToken.value)
	}

	intf := &InterfaceType{
		Name:   p.currentToken.value,
		Module: p.currentModule.FullName(),
	}

	if err := p.nextToken(); err != nil {
		return err
	}

	// Forward declaration: "interface Robot;"
	if p.currentToken.typ == tokenSemicolon {
		return p.nextToken()
	}

	// Inheritance list
	if p.currentToken.typ == tokenColon {
		if err := p.nextToken(); err != nil {
			return err
		}
		for {
			name, err := p.parseScopedName()
			if err != nil {
				return err
			}
			intf.Parents = append(intf.Parents, name)

			if p.currentToken.typ != tokenComma {
				break
			}
			if err := p.nextToken(); err != nil {
				return err
			}
		}
	}

	if err := p.expect(tokenOpenBrace, "'{' after interface name"); err != nil {
		return err
	}

	for p.currentToken.typ != tokenCloseBrace {
		if p.currentToken.typ == tokenEOF {
			return fmt.Errorf("unexpected end of file in interface %s", intf.Name)
		}

		op, err := p.parseOperation()
		if err != nil {
			return err
		}
		intf.Operations = append(intf.Operations, *op)
	}

	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.expect(tokenSemicolon, "';' after interface body"); err != nil {
		return err
	}

	p.currentModule.AddType(intf.Name, intf)
	return nil
}

// parseOperation parses one operation inside an interface body
func (p *Parser) parseOperation() (*Operation, error) {
	returnType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if p.currentToken.typ != tokenIdentifier {
		return nil, fmt.Errorf("expected operation name, got %q", p.currentToken.value)
	}

	op := &Operation{
		Name:       p.currentToken.value,
		ReturnType: returnType,
	}

	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.expect(tokenOpenParen, "'(' after operation name"); err != nil {
		return nil, err
	}

	for p.currentToken.typ != tokenCloseParen {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		op.Parameters = append(op.Parameters, *param)

		if p.currentToken.typ == tokenComma {
			if err := p.nextToken(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.nextToken(); err != nil {
		return nil, err
	}

	// Optional raises clause
	if p.currentToken.typ == tokenIdentifier && p.currentToken.value == "raises" {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.expect(tokenOpenParen, "'(' after raises"); err != nil {
			return nil, err
		}

		for p.currentToken.typ != tokenCloseParen {
			name, err := p.parseScopedName()
			if err != nil {
				return nil, err
			}
			op.Raises = append(op.Raises, name)

			if p.currentToken.typ == tokenComma {
				if err := p.nextToken(); err != nil {
					return nil, err
				}
			}
		}

		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	if err := p.expect(tokenSemicolon, "';' after operation"); err != nil {
		return nil, err
	}

	return op, nil
}

// parseParameter parses one operation parameter
func (p *Parser) parseParameter() (*Parameter, error) {
	direction := In
	switch p.currentToken.value {
	case "in":
		direction = In
	case "out":
		direction = Out
	case "inout":
		direction = InOut
	default:
		return nil, fmt.Errorf("expected parameter direction, got %q", p.currentToken.value)
	}

	if err := p.nextToken(); err != nil {
		return nil, err
	}

	paramType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if p.currentToken.typ != tokenIdentifier {
		return nil, fmt.Errorf("expected parameter name, got %q", p.currentToken.value)
	}

	param := &Parameter{
		Name:      p.currentToken.value,
		Type:      paramType,
		Direction: direction,
	}

	return param, p.nextToken()
}

// parseTypedef parses an IDL typedef, including sequence and array forms
func (p *Parser) parseTypedef() error {
	if err := p.nextToken(); err != nil {
		return err
	}

	origType, err := p.parseType()
	if err != nil {
		return err
	}

	if p.currentToken.typ != tokenIdentifier {
		return fmt.Errorf("expected typedef name, got %q", p.currentToken.value)
	}
	name := p.currentToken.value

	if err := p.nextToken(); err != nil {
		return err
	}

	// Array form: typedef double Transform_[7];
	if p.currentToken.typ == tokenOpenBracket {
		if err := p.nextToken(); err != nil {
			return err
		}
		if p.currentToken.typ != tokenNumber {
			return fmt.Errorf("expected array size, got %q", p.currentToken.value)
		}
		size, err := strconv.Atoi(p.currentToken.value)
		if err != nil {
			return fmt.Errorf("invalid array size %q", p.currentToken.value)
		}
		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.expect(tokenCloseBracket, "']' after array size"); err != nil {
			return err
		}
		origType = &ArrayType{ElementType: origType, Size: size}
	}

	if err := p.expect(tokenSemicolon, "';' after typedef"); err != nil {
		return err
	}

	p.currentModule.AddType(name, &TypeDef{
		Name:     name,
		Module:   p.currentModule.FullName(),
		OrigType: origType,
	})
	return nil
}

// parseException parses an IDL exception declaration
func (p *Parser) parseException() error {
	if err := p.nextToken(); err != nil {
		return err
	}

	if p.currentToken.typ != tokenIdentifier {
		return fmt.Errorf("expected exception name, got %q", p.currentToken.value)
	}

	exc := &ExceptionType{
		Name:   p.currentToken.value,
		Module: p.currentModule.FullName(),
	}

	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.expect(tokenOpenBrace, "'{' after exception name"); err != nil {
		return err
	}

	for p.currentToken.typ != tokenCloseBrace {
		memberType, err := p.parseType()
		if err != nil {
			return err
		}

		if p.currentToken.typ != tokenIdentifier {
			return fmt.Errorf("expected exception member name, got %q", p.currentToken.value)
		}
		exc.Members = append(exc.Members, ExceptionMember{
			Name: p.currentToken.value,
			Type: memberType,
		})

		if err := p.nextToken(); err != nil {
			return err
		}
		if err := p.expect(tokenSemicolon, "';' after exception member"); err != nil {
			return err
		}
	}

	if err := p.nextToken(); err != nil {
		return err
	}
	if err := p.expect(tokenSemicolon, "';' after exception body"); err != nil {
		return err
	}

	p.currentModule.AddType(exc.Name, exc)
	return nil
}

// parseConst skips a const declaration; constants are not needed by the
// generated bindings
func (p *Parser) parseConst() error {
	for p.currentToken.typ != tokenSemicolon {
		if p.currentToken.typ == tokenEOF {
			return fmt.Errorf("unexpected end of file in const declaration")
		}
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return p.nextToken()
}

// parseType parses a type reference: basic type, sequence, or (scoped) name
func (p *Parser) parseType() (Type, error) {
	if p.currentToken.typ != tokenIdentifier {
		return nil, fmt.Errorf("expected type, got %q", p.currentToken.value)
	}

	switch p.currentToken.value {
	case "sequence":
		return p.parseSequence()

	case "unsigned":
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		switch p.currentToken.value {
		case "short":
			return p.simpleType(TypeUShort)
		case "long":
			if err := p.nextToken(); err != nil {
				return nil, err
			}
			if p.currentToken.value == "long" {
				if err := p.nextToken(); err != nil {
					return nil, err
				}
				return &SimpleType{Name: TypeULongLong}, nil
			}
			return &SimpleType{Name: TypeULong}, nil
		default:
			return nil, fmt.Errorf("invalid unsigned type: %q", p.currentToken.value)
		}

	case "long":
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if p.currentToken.value == "long" {
			if err := p.nextToken(); err != nil {
				return nil, err
			}
			return &SimpleType{Name: TypeLongLong}, nil
		}
		return &SimpleType{Name: TypeLong}, nil

	case "short", "float", "double", "boolean", "octet", "any", "string", "void":
		return p.simpleType(BasicType(p.currentToken.value))

	default:
		name, err := p.parseScopedName()
		if err != nil {
			return nil, err
		}
		if strings.Contains(name, "::") {
			return &ScopedType{Name: name}, nil
		}
		if typ, ok := p.currentModule.GetType(name); ok {
			return typ, nil
		}
		// Reference to a type declared later or in an enclosing scope
		return &ScopedType{Name: name}, nil
	}
}

// simpleType consumes the current token and returns the basic type
func (p *Parser) simpleType(name BasicType) (Type, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return &SimpleType{Name: name}, nil
}

// parseSequence parses "sequence<T>" or "sequence<T, N>"
func (p *Parser) parseSequence() (Type, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	if p.currentToken.value != "<" {
		return nil, fmt.Errorf("expected '<' after sequence, got %q", p.currentToken.value)
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	elementType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	seq := &SequenceType{ElementType: elementType, MaxSize: -1}

	if p.currentToken.typ == tokenComma {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if p.currentToken.typ != tokenNumber {
			return nil, fmt.Errorf("expected sequence bound, got %q", p.currentToken.value)
		}
		size, err := strconv.Atoi(p.currentToken.value)
		if err != nil {
			return nil, fmt.Errorf("invalid sequence bound %q", p.currentToken.value)
		}
		seq.MaxSize = size
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	if p.currentToken.value != ">" {
		return nil, fmt.Errorf("expected '>' after sequence element type, got %q", p.currentToken.value)
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	return seq, nil
}

// parseScopedName parses "name" or "scope::name", consuming the tokens
func (p *Parser) parseScopedName() (string, error) {
	if p.currentToken.typ != tokenIdentifier {
		return "", fmt.Errorf("expected identifier, got %q", p.currentToken.value)
	}

	var sb strings.Builder
	sb.WriteString(p.currentToken.value)
	if err := p.nextToken(); err != nil {
		return "", err
	}

	for p.currentToken.typ == tokenColon {
		if err := p.nextToken(); err != nil {
			return "", err
		}
		if p.currentToken.typ != tokenColon {
			return "", fmt.Errorf("expected '::' in scoped name")
		}
		if err := p.nextToken(); err != nil {
			return "", err
		}
		if p.currentToken.typ != tokenIdentifier {
			return "", fmt.Errorf("expected identifier after '::', got %q", p.currentToken.value)
		}
		sb.WriteString("::")
		sb.WriteString(p.currentToken.value)
		if err := p.nextToken(); err != nil {
			return "", err
		}
	}

	return sb.String(), nil
}

// tokenType identifies the kind of a lexed token
type tokenType int

const (
	tokenIdentifier tokenType = iota
	tokenNumber
	tokenString
	tokenOperator
	tokenOpenBrace
	tokenCloseBrace
	tokenOpenParen
	tokenCloseParen
	tokenOpenBracket
	tokenCloseBracket
	tokenSemicolon
	tokenColon
	tokenComma
	tokenPreprocessor
	tokenEOF
)

// token is a single lexed token
type token struct {
	typ   tokenType
	value string
}

// lexer tokenizes IDL source
type lexer struct {
	reader  *bufio.Reader
	current rune
	eof     bool
}

// newLexer creates a lexer over the reader
func newLexer(r io.Reader) *lexer {
	l := &lexer{reader: bufio.NewReader(r)}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *lexer) readChar() {
	var err error
	l.current, _, err = l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			l.eof = true
		}
		l.current = 0
	}
}

// skipWhitespace advances past spaces, tabs and newlines
func (l *lexer) skipWhitespace() {
	for !l.eof && (l.current == ' ' || l.current == '\t' || l.current == '\n' || l.current == '\r') {
		l.readChar()
	}
}

// skipComment handles // and /* */ comments; returns whether one was skipped
func (l *lexer) skipComment() (bool, error) {
	if l.current != '/' {
		return false, nil
	}

	next, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}

	switch next {
	case '/':
		for !l.eof && l.current != '\n' {
			l.readChar()
		}
		return true, nil

	case '*':
		l.readChar()
		var prev rune
		for !l.eof {
			if prev == '*' && l.current == '/' {
				l.readChar()
				return true, nil
			}
			prev = l.current
			l.readChar()
		}
		return false, fmt.Errorf("unterminated block comment")

	default:
		l.reader.UnreadRune()
		return false, nil
	}
}

// nextToken returns the next token from the input
func (l *lexer) nextToken() (*token, error) {
	for {
		l.skipWhitespace()

		skipped, err := l.skipComment()
		if err != nil {
			return nil, err
		}
		if !skipped {
			break
		}
	}

	if l.eof {
		return &token{typ: tokenEOF}, nil
	}

	switch l.current {
	case '{':
		l.readChar()
		return &token{typ: tokenOpenBrace, value: "{"}, nil
	case '}':
		l.readChar()
		return &token{typ: tokenCloseBrace, value: "}"}, nil
	case '(':
		l.readChar()
		return &token{typ: tokenOpenParen, value: "("}, nil
	case ')':
		l.readChar()
		return &token{typ: tokenCloseParen, value: ")"}, nil
	case '[':
		l.readChar()
		return &token{typ: tokenOpenBracket, value: "["}, nil
	case ']':
		l.readChar()
		return &token{typ: tokenCloseBracket, value: "]"}, nil
	case ';':
		l.readChar()
		return &token{typ: tokenSemicolon, value: ";"}, nil
	case ':':
		l.readChar()
		return &token{typ: tokenColon, value: ":"}, nil
	case ',':
		l.readChar()
		return &token{typ: tokenComma, value: ","}, nil
	case '#':
		return l.readPreprocessor()
	case '"':
		return l.readString()
	}

	if isIdentifierStart(l.current) {
		return l.readIdentifier()
	}
	if l.current >= '0' && l.current <= '9' {
		return l.readNumber()
	}

	op := string(l.current)
	l.readChar()
	return &token{typ: tokenOperator, value: op}, nil
}

// readPreprocessor reads a preprocessor directive to end of line
func (l *lexer) readPreprocessor() (*token, error) {
	var directive strings.Builder
	for !l.eof && l.current != '\n' {
		directive.WriteRune(l.current)
		l.readChar()
	}
	return &token{typ: tokenPreprocessor, value: directive.String()}, nil
}

// readIdentifier reads an identifier token
func (l *lexer) readIdentifier() (*token, error) {
	var ident strings.Builder
	for !l.eof && (isIdentifierStart(l.current) || (l.current >= '0' && l.current <= '9')) {
		ident.WriteRune(l.current)
		l.readChar()
	}
	return &token{typ: tokenIdentifier, value: ident.String()}, nil
}

// readNumber reads a numeric literal
func (l *lexer) readNumber() (*token, error) {
	var num strings.Builder
	for !l.eof && ((l.current >= '0' && l.current <= '9') || l.current == '.') {
		num.WriteRune(l.current)
		l.readChar()
	}
	return &token{typ: tokenNumber, value: num.String()}, nil
}

// readString reads a double-quoted string literal
func (l *lexer) readString() (*token, error) {
	l.readChar() // skip opening quote

	var str strings.Builder
	for !l.eof && l.current != '"' {
		str.WriteRune(l.current)
		l.readChar()
	}

	if l.eof {
		return nil, fmt.Errorf("unterminated string literal")
	}

	l.readChar() // skip closing quote
	return &token{typ: tokenString, value: str.String()}, nil
}

// isIdentifierStart reports whether r can start an identifier
func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}
