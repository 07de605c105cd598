// Package units holds the unit registry and the quantity algebra used by the
// expression engine. A Quantity keeps the unit it was written in; conversions
// go through the SI base magnitude of its dimension.
package units
