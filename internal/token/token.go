// Package token defines the lexical token vocabulary shared by the scanner
// and the parser.
package token

import "fmt"

// Type identifies the category of a lexed token.
type Type int

const (
	EOF Type = iota // sentinel: end of input

	// Literals
	IDENT     // identifier or typedef-name, disambiguated by the name table
	INTEGER   // decimal, octal, or hex integer literal
	UNSIGNED  // integer literal with a u/U suffix
	LONGINT   // integer literal with an l/L suffix
	ULONGINT  // integer literal with a combined u/U and l/L suffix
	FLOATLIT  // floating literal, always typed double by this front-end
	CHARLIT   // character literal 'c'
	STRINGLIT // string literal "..."

	// Keywords — type specifiers
	VOID
	CHAR
	SHORT
	INT
	LONG
	FLOAT
	DOUBLE
	SIGNED
	UNSIGNED_KW
	BOOL
	COMPLEX
	IMAGINARY
	STRUCT
	UNION
	ENUM
	TYPEDEF_NAME // classified by the name table, not a reserved word

	// Keywords — qualifiers and storage class
	CONST
	VOLATILE
	RESTRICT
	ATOMIC
	TYPEDEF
	STATIC
	EXTERN
	AUTO
	REGISTER
	INLINE
	NORETURN
	ALIGNAS

	// Keywords — control flow and statements
	IF
	ELSE
	WHILE
	DO
	FOR
	SWITCH
	CASE
	DEFAULT
	BREAK
	CONTINUE
	RETURN
	GOTO

	// Keywords — operators/expression forms
	SIZEOF
	ALIGNOF
	GENERIC
	STATIC_ASSERT

	// Paired delimiters
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET

	// Punctuation
	DOT
	ARROW
	ELLIPSIS
	SEMICOLON
	COMMA
	COLON
	QUESTION

	// Arithmetic / bitwise operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP
	PIPE
	CARET
	TILDE
	SHL
	SHR
	AMP_AMP
	PIPE_PIPE
	BANG

	PLUS_PLUS
	MINUS_MINUS

	// Assignment
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	AMP_ASSIGN
	PIPE_ASSIGN
	CARET_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN

	// Comparison
	EQ
	NEQ
	LT
	GT
	LE
	GE
)

var names = map[Type]string{
	EOF: "EOF", IDENT: "IDENT", INTEGER: "INTEGER", UNSIGNED: "UNSIGNED",
	LONGINT: "LONGINT", ULONGINT: "ULONGINT", FLOATLIT: "FLOATLIT",
	CHARLIT: "CHARLIT", STRINGLIT: "STRINGLIT",
	VOID: "void", CHAR: "char", SHORT: "short", INT: "int", LONG: "long",
	FLOAT: "float", DOUBLE: "double", SIGNED: "signed", UNSIGNED_KW: "unsigned",
	BOOL: "_Bool", COMPLEX: "_Complex", IMAGINARY: "_Imaginary",
	STRUCT: "struct", UNION: "union", ENUM: "enum", TYPEDEF_NAME: "TYPEDEF_NAME",
	CONST: "const", VOLATILE: "volatile", RESTRICT: "restrict", ATOMIC: "_Atomic",
	TYPEDEF: "typedef", STATIC: "static", EXTERN: "extern", AUTO: "auto",
	REGISTER: "register", INLINE: "inline", NORETURN: "_Noreturn", ALIGNAS: "_Alignas",
	IF: "if", ELSE: "else", WHILE: "while", DO: "do", FOR: "for",
	SWITCH: "switch", CASE: "case", DEFAULT: "default", BREAK: "break",
	CONTINUE: "continue", RETURN: "return", GOTO: "goto",
	SIZEOF: "sizeof", ALIGNOF: "_Alignof", GENERIC: "_Generic",
	STATIC_ASSERT: "_Static_assert",
	LBRACE:        "{", RBRACE: "}", LPAREN: "(", RPAREN: ")",
	LBRACKET: "[", RBRACKET: "]",
	DOT: ".", ARROW: "->", ELLIPSIS: "...", SEMICOLON: ";", COMMA: ",",
	COLON: ":", QUESTION: "?",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", SHL: "<<", SHR: ">>",
	AMP_AMP: "&&", PIPE_PIPE: "||", BANG: "!",
	PLUS_PLUS: "++", MINUS_MINUS: "--",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=", AMP_ASSIGN: "&=",
	PIPE_ASSIGN: "|=", CARET_ASSIGN: "^=", SHL_ASSIGN: "<<=", SHR_ASSIGN: ">>=",
	EQ: "==", NEQ: "!=", LT: "<", GT: ">", LE: "<=", GE: ">=",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps reserved source text to its Type. Identifiers not present
// here are lexed as IDENT and later disambiguated by the name table.
var Keywords = map[string]Type{
	"void": VOID, "char": CHAR, "short": SHORT, "int": INT, "long": LONG,
	"float": FLOAT, "double": DOUBLE, "signed": SIGNED, "unsigned": UNSIGNED_KW,
	"_Bool": BOOL, "_Complex": COMPLEX, "_Imaginary": IMAGINARY,
	"struct": STRUCT, "union": UNION, "enum": ENUM,
	"const": CONST, "volatile": VOLATILE, "restrict": RESTRICT, "_Atomic": ATOMIC,
	"typedef": TYPEDEF, "static": STATIC, "extern": EXTERN, "auto": AUTO,
	"register": REGISTER, "inline": INLINE, "_Noreturn": NORETURN, "_Alignas": ALIGNAS,
	"if": IF, "else": ELSE, "while": WHILE, "do": DO, "for": FOR,
	"switch": SWITCH, "case": CASE, "default": DEFAULT, "break": BREAK,
	"continue": CONTINUE, "return": RETURN, "goto": GOTO,
	"sizeof": SIZEOF, "_Alignof": ALIGNOF, "_Generic": GENERIC,
	"_Static_assert": STATIC_ASSERT,
}

// Token is a single lexical unit produced by the scanner.
type Token struct {
	Type   Type
	Lexeme string // exact source text (identifier spelling, or literal text)
	Line   int    // 1-based, updated across GNU linemarkers
	File   string // current filename per the most recent linemarker, if any
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q line %d", t.Type, t.Lexeme, t.Line)
}
