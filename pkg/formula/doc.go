// Package formula evaluates the arithmetic expressions used by custom derived
// fields. It is deliberately small: numbers, identifiers resolved from an
// environment, unary sign, the binary operators + - * / and parentheses.
// Nothing else can be expressed, so evaluating user-authored formula text can
// never run arbitrary logic.
//
// Custom formulas reference parent fields by id. Substitute replaces those ids
// with the parents' current values before evaluation, mirroring how formulas
// are authored in the form editor.
package formula
