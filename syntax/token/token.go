package token

import "strings"

// Class is a bitmask of the syntactic categories a source byte belongs to.
type Class uint8

const (
	NORMAL Class = 0

	SPACE       Class = 1 << iota >> 1 // \t \v \f \r and ' '
	COMMAND_END                        // ; \n
	SUBS                               // \ $ [
	QUOTE                              // "
	CLOSE_PAREN                        // )
	BRACE                              // { }
)

var classes [256]Class

func init() {
	for _, ch := range "\t\v\f\r " {
		classes[ch] = SPACE
	}
	classes[';'] = COMMAND_END
	classes['\n'] = COMMAND_END

	classes['\\'] = SUBS
	classes['$'] = SUBS
	classes['['] = SUBS

	classes['"'] = QUOTE
	classes[')'] = CLOSE_PAREN
	classes['{'] = BRACE
	classes['}'] = BRACE
}

// Classify returns the class of ch. Bytes without a category are NORMAL.
func Classify(ch byte) Class {
	return classes[ch]
}

// Is reports whether ch belongs to any of the classes in mask.
func Is(ch byte, mask Class) bool {
	return classes[ch]&mask != 0
}

var names = [...]struct {
	class Class
	name  string
}{
	{SPACE, "SPACE"},
	{COMMAND_END, "COMMAND_END"},
	{SUBS, "SUBS"},
	{QUOTE, "QUOTE"},
	{CLOSE_PAREN, "CLOSE_PAREN"},
	{BRACE, "BRACE"},
}

func (c Class) String() string {
	if c == NORMAL {
		return "NORMAL"
	}
	var parts []string
	for _, n := range names {
		if c&n.class != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
