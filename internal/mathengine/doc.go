// Package mathengine evaluates calculator expressions with variables and
// physical units.
//
// An input line is first rewritten from the notebook dialect into an HCL
// expression (implicit multiplication such as "100 KB", the "^" power
// operator, bare ".5" literals), then parsed with hclsyntax and evaluated by
// walking the syntax tree. Values are cty values: numbers, booleans,
// strings and a capsule type carrying a units.Quantity.
//
// The engine's capability set can grow at runtime through DefineUnit; every
// successful definition bumps Generation so callers can tell when results
// computed earlier may be stale.
package mathengine
