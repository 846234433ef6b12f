package strategy

import (
	"regexp"
	"strconv"
	"strings"
)

// fallbackItemName labels the synthetic item used when nothing parses.
const fallbackItemName = "Popular Item"

// One "name price" pair per line: the price is a trailing run of digits
// preceded by a space, colon or dash.
var itemLineRe = regexp.MustCompile(`^(.+?)[\s:\-]+([0-9]+)\s*$`)

// ParseItems extracts (name, price) pairs from unstructured menu text, one
// item per line. Lines without a trailing numeric token are discarded. When
// nothing parses, a single synthetic item priced at the average order value
// is substituted so the synthesizer always has material to work with.
func ParseItems(text string, aov float64) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		// Strip list decoration like "+ Burger 200" or "- Pizza 450".
		line = strings.TrimSpace(strings.TrimLeft(line, "+- \t"))
		if line == "" {
			continue
		}
		m := itemLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimRight(strings.TrimSpace(m[1]), ":- ")
		if name == "" {
			continue
		}
		price, err := strconv.ParseFloat(m[2], 64)
		if err != nil || price <= 0 {
			continue
		}
		items = append(items, Item{Name: name, Price: price})
	}

	if len(items) == 0 {
		items = []Item{{Name: fallbackItemName, Price: aov}}
	}
	return items
}
