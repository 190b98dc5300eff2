// Package canonical implements the deterministic serialization that request
// and response signatures are computed over.
//
// The canonical form of a call is
//
//	method ‖ uuid ‖ flatten(data)
//
// where flatten visits mapping values in lexicographic key order at every
// depth and list elements in order, writes scalars without delimiters and
// skips null values entirely. Numbers are rendered locale-independently:
// integers in base 10, floats in plain decimal notation without exponent,
// decimal.Decimal and json.Number as their exact digit strings.
//
// FormatKeyValue additionally writes each mapping key before its value; it is
// the form published by the payment API. FormatValues writes values only.
package canonical
