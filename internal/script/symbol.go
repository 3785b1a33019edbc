package script

import "regexp"

var (
	functionNameRE = regexp.MustCompile(`^[A-Za-z0-9_\-!.]([A-Za-z0-9_\-! .]*[A-Za-z0-9_\-!.])?$`)
	symbolRE       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-!.]*$`)
)

// IsFunctionName reports whether s can be written as an instruction name in
// the text form. Inner spaces are allowed; leading and trailing ones are not.
func IsFunctionName(s string) bool {
	return functionNameRE.MatchString(s)
}

// IsSymbol reports whether s can be written inside Mem(...) or (...).
func IsSymbol(s string) bool {
	return symbolRE.MatchString(s)
}

// IsFunctionNameByte reports whether c may appear in an instruction name.
func IsFunctionNameByte(c byte) bool {
	return IsSymbolByte(c) || c == ' '
}

// IsSymbolByte reports whether c may appear in a symbol.
func IsSymbolByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '!', c == '.':
		return true
	}
	return false
}
