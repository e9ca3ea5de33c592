package taildown

import "strings"

// parseAttributes tokenizes the raw text inside the `{...}` block of an
// opening fence, left to right:
//
//   - key="value" or key='value' (quotes required) records a key/value pair
//   - a whitespace-delimited token starting with `.` records a literal class
//     with the dot stripped
//   - any other whitespace-delimited token is kept verbatim as an opaque
//     token in the class list; its meaning (variant, size, shorthand or
//     garbage) is resolved downstream, never here
//
// ok is false when the text cannot be tokenized consistently, which for this
// grammar means an unterminated quoted value or a quoted value followed by
// trailing garbage. The caller demotes the fence line to ordinary content.
func parseAttributes(raw string) (classes []string, attributes map[string]string, ok bool) {
	attributes = map[string]string{}
	i := 0
	for i < len(raw) {
		for i < len(raw) && isAttrSpace(raw[i]) {
			i++
		}
		if i >= len(raw) {
			break
		}
		start := i

		// key="value" / key='value'
		j := i
		for j < len(raw) && isKeyByte(raw[j]) {
			j++
		}
		if j > i && j+1 < len(raw) && raw[j] == '=' && (raw[j+1] == '"' || raw[j+1] == '\'') {
			quote := raw[j+1]
			end := strings.IndexByte(raw[j+2:], quote)
			if end < 0 {
				return nil, nil, false
			}
			value := raw[j+2 : j+2+end]
			i = j + 2 + end + 1
			if i < len(raw) && !isAttrSpace(raw[i]) {
				return nil, nil, false
			}
			attributes[raw[start:j]] = value
			continue
		}

		for i < len(raw) && !isAttrSpace(raw[i]) {
			i++
		}
		token := raw[start:i]
		if len(token) > 1 && token[0] == '.' {
			classes = append(classes, token[1:])
		} else {
			classes = append(classes, token)
		}
	}
	return classes, attributes, true
}

func isAttrSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isKeyByte(b byte) bool {
	return b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' ||
		b == '_' || b == '-'
}
