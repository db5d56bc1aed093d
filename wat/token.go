package wat

import "unicode"

type tokenType int

const (
	lparen tokenType = iota
	rparen
	ident
	str
	number
)

func (t tokenType) String() string {
	switch t {
	case lparen:
		return "'('"
	case rparen:
		return "')'"
	case ident:
		return "identifier"
	case str:
		return "string"
	case number:
		return "number"
	}
	return "unknown"
}

type token struct {
	value string
	typ   tokenType
	line  int
}

func tokenize(input string) []token {
	var tokens []token
	line := 1
	runes := []rune(input)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			line++
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}

		if r == ';' && i+1 < len(runes) && runes[i+1] == ';' {
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}
			continue
		}

		if r == '(' {
			if i+1 < len(runes) && runes[i+1] == ';' {
				depth := 1
				i += 2
				for i < len(runes) && depth > 0 {
					switch {
					case runes[i] == '(' && i+1 < len(runes) && runes[i+1] == ';':
						depth++
						i++
					case runes[i] == ';' && i+1 < len(runes) && runes[i+1] == ')':
						depth--
						i++
					case runes[i] == '\n':
						line++
					}
					i++
				}
				i--
				continue
			}
			tokens = append(tokens, token{"(", lparen, line})
			continue
		}

		if r == ')' {
			tokens = append(tokens, token{")", rparen, line})
			continue
		}

		if r == '"' {
			start := i + 1
			i++
			for i < len(runes) && runes[i] != '"' {
				i++
			}
			tokens = append(tokens, token{string(runes[start:i]), str, line})
			continue
		}

		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '(' && runes[i] != ')' && runes[i] != '"' {
			i++
		}
		atom := string(runes[start:i])
		i--

		typ := ident
		if isNumeric(atom) {
			typ = number
		}
		tokens = append(tokens, token{atom, typ, line})
	}

	return tokens
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if len(s) >= 3 && (s[:3] == "inf" || s[:3] == "nan") {
		return true
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
