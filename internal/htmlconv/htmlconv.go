/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package htmlconv converts between the rich-text widget's HTML and the
// plain-text content model. The round trip is best-effort structural, not
// byte-exact: paragraph count and relative line order are preserved,
// whitespace details are not guaranteed.
package htmlconv

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"

	"storypager/internal/textutil"
)

// blockTags start a new paragraph when encountered in the HTML tree.
var blockTags = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "li": true, "blockquote": true,
	"pre": true,
}

// skipTags contribute no text at all.
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true, "title": true,
}

// HTMLToText extracts the plain-text content model from an HTML fragment:
// paragraph-level elements become "\n\n"-separated chunks, <br> becomes
// "\n", remaining tags are dropped and entities are decoded by the parser.
func HTMLToText(src string) (string, error) {
	doc, err := xhtml.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}

	var paragraphs []string
	var cur strings.Builder

	flush := func() {
		paragraphs = append(paragraphs, strings.Trim(cur.String(), "\n"))
		cur.Reset()
	}

	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		switch n.Type {
		case xhtml.ElementNode:
			if skipTags[n.Data] {
				return
			}
			if n.Data == "br" {
				cur.WriteString("\n")
				return
			}
			if blockTags[n.Data] {
				if cur.Len() > 0 {
					flush()
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				flush()
				return
			}
		case xhtml.TextNode:
			// Inter-element whitespace must not open a paragraph.
			if strings.TrimSpace(n.Data) == "" && cur.Len() == 0 {
				return
			}
			cur.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if strings.TrimSpace(cur.String()) != "" {
		flush()
	}

	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, strings.TrimSpace(trimBlankLines(p)))
	}
	// Leading/trailing empty paragraphs are document padding, not content.
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return textutil.Normalize(strings.Join(out, "\n\n")), nil
}

func trimBlankLines(p string) string {
	lines := strings.Split(p, "\n")
	kept := lines[:0]
	for _, l := range lines {
		kept = append(kept, strings.TrimSpace(l))
	}
	return strings.Join(kept, "\n")
}

// TextToHTML wraps "\n\n"-delimited chunks of the content model in
// paragraph tags, with intra-paragraph "\n" rendered as <br>. Text is
// entity-escaped. Empty chunks yield empty <p></p> elements so the
// paragraph count survives the round trip.
func TextToHTML(text string) string {
	text = textutil.Normalize(text)
	if text == "" {
		return ""
	}
	chunks := strings.Split(text, "\n\n")
	var b strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("<p>")
		lines := strings.Split(chunk, "\n")
		for j, line := range lines {
			if j > 0 {
				b.WriteString("<br>")
			}
			b.WriteString(html.EscapeString(line))
		}
		b.WriteString("</p>")
	}
	return b.String()
}
