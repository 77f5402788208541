// Package sanitize 는 content API 가 내려준 신뢰할 수 없는 HTML 을
// 렌더링 경계로 넘기기 전에 정리한다.
package sanitize

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sanitizer 는 HTML 정리 정책이다. services 는 이 인터페이스에만 의존한다.
type Sanitizer interface {
	Sanitize(raw string) template.HTML
}

// Policy 는 bluemonday UGC 정책에 코드 하이라이트용 class 를 허용한 정책이다.
// script, iframe, on* 이벤트 핸들러, javascript: URL 은 모두 제거된다.
type Policy struct {
	p *bluemonday.Policy
}

var languageClass = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)

func NewPolicy() *Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(languageClass).OnElements("code", "pre", "span", "div")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")
	p.RequireNoReferrerOnLinks(true)
	return &Policy{p: p}
}

// Sanitize 는 정리된 HTML 을 template.HTML 로 반환한다.
// API 콘텐츠를 template.HTML 로 바꾸는 곳은 여기 하나뿐이어야 한다.
func (s *Policy) Sanitize(raw string) template.HTML {
	return template.HTML(s.p.Sanitize(raw))
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Blockquote: true, atom.Td: true, atom.Th: true, atom.Tr: true,
}

// PlainText 는 HTML 조각에서 텍스트 노드만 뽑아 공백을 정규화한 문자열을 반환한다.
// 메타 설명이 비어 있을 때 본문 요약을 만드는 데 사용한다.
func PlainText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		block := false
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			block = blockElements[n.DataAtom]
		}
		if block {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte(' ')
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
