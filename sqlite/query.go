package sqlite

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// prefixMinRunes is the shortest bare word that is matched as a prefix.
const prefixMinRunes = 3

// CompileQuery converts free-form user input into an FTS5 match expression.
//
// Quoted phrases are kept as phrases; an unterminated quote runs to the end
// of the input. AND, OR and NOT in any case become operators when they sit
// between two operands and are dropped otherwise. Every other word is
// reduced to letters, digits and underscores, and words of three or more
// characters match as prefixes. The result never contains FTS5 syntax
// errors. An empty result means there is nothing to search for.
func CompileQuery(q string) string {
	var tokens []queryToken
	for i := 0; i < len(q); {
		r, size := utf8.DecodeRuneInString(q[i:])
		switch {
		case r == '"':
			rest := q[i+1:]
			end := strings.IndexByte(rest, '"')
			var phrase string
			if end < 0 {
				phrase, i = rest, len(q)
			} else {
				phrase, i = rest[:end], i+1+end+1
			}
			if strings.TrimSpace(phrase) != "" {
				tokens = append(tokens, queryToken{text: `"` + phrase + `"`})
			}
		case unicode.IsSpace(r):
			i += size
		default:
			end := i
			for end < len(q) {
				r, size := utf8.DecodeRuneInString(q[end:])
				if unicode.IsSpace(r) || r == '"' {
					break
				}
				end += size
			}
			word := q[i:end]
			i = end

			if upper := strings.ToUpper(word); isOperator(upper) {
				tokens = append(tokens, queryToken{text: upper, operator: true})
				continue
			}

			sanitized := sanitizeToken(word)
			if sanitized == "" {
				continue
			}
			// Stripping punctuation can leave a bare keyword such as "OR?".
			// FTS5 keywords are case-sensitive and the tokenizer is not.
			if isOperator(sanitized) {
				sanitized = strings.ToLower(sanitized)
			}
			if utf8.RuneCountInString(sanitized) >= prefixMinRunes {
				sanitized += "*"
			}
			tokens = append(tokens, queryToken{text: sanitized})
		}
	}

	return joinTokens(tokens)
}

type queryToken struct {
	text     string
	operator bool
}

// joinTokens keeps an operator only when an operand was kept before it and
// an operand follows it.
func joinTokens(tokens []queryToken) string {
	var out []string
	lastOperand := false
	for i, t := range tokens {
		if !t.operator {
			out = append(out, t.text)
			lastOperand = true
			continue
		}
		if lastOperand && i+1 < len(tokens) && !tokens[i+1].operator {
			out = append(out, t.text)
			lastOperand = false
		}
	}
	return strings.Join(out, " ")
}

func isOperator(s string) bool {
	return s == "AND" || s == "OR" || s == "NOT"
}

// sanitizeToken keeps letters, digits and underscores.
func sanitizeToken(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, word)
}
