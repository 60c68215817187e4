// htmltext превращает фрагменты HTML из ответов hh.ru в плоский текст.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip убирает теги (в т.ч. <highlighttext>), раскрывает сущности и схлопывает пробелы.
// Строка без '<' и '&' возвращается без изменений.
func Strip(s string) (string, error) {
	if !strings.ContainsAny(s, "<&") {
		return s, nil
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	collect(doc, &b)

	return strings.Join(strings.Fields(b.String()), " "), nil
}

func collect(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}

	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, b)
	}
}
