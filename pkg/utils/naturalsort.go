package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var tokenizer = regexp.MustCompile(`(\d+|\D+)`)

type naturalSortToken struct {
	str   string
	num   int
	isNum bool
}

func tokenize(s string) []naturalSortToken {
	parts := tokenizer.FindAllString(s, -1)
	tokens := make([]naturalSortToken, len(parts))
	for i, p := range parts {
		if num, err := strconv.Atoi(p); err == nil {
			tokens[i] = naturalSortToken{num: num, isNum: true}
		} else {
			tokens[i] = naturalSortToken{str: strings.ToLower(p)}
		}
	}
	return tokens
}

// NaturalLess orders chapter tags so that "5-2" sorts before "5-10" and "9" before "10".
func NaturalLess(a, b string) bool {
	ta := tokenize(a)
	tb := tokenize(b)

	for i := 0; i < min(len(ta), len(tb)); i++ {
		switch {
		case ta[i].isNum && !tb[i].isNum:
			return true
		case !ta[i].isNum && tb[i].isNum:
			return false
		case ta[i].isNum:
			if ta[i].num != tb[i].num {
				return ta[i].num < tb[i].num
			}
		default:
			if ta[i].str != tb[i].str {
				return ta[i].str < tb[i].str
			}
		}
	}
	return len(ta) < len(tb)
}
