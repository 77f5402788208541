package sanitize

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// 본문 이미지 중 이보다 작다고 선언된 이미지(아이콘, 배지 등)는 대표 이미지로 쓰지 않는다.
const (
	minCoverWidth  = 200
	minCoverHeight = 100
)

// CoverImage 는 cover_image 가 없는 포스트의 대표 이미지를 본문에서 고른다.
// og:image, JSON-LD 같은 메타데이터는 sanitize 과정에서 제거되므로 raw 본문에서 readability 로 읽고,
// 없으면 sanitized 본문에서 충분히 큰 첫 <img> 를 쓴다. raw 에서는 URL 문자열만 꺼낸다.
// 상대 경로는 baseURL 기준 절대 URL 로 바꾼다. 찾지 못하면 빈 문자열이다.
func CoverImage(raw, sanitized, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = &url.URL{}
	}

	if src := metadataImage(raw, base); src != "" {
		if resolved := resolve(src, base); resolved != "" {
			return resolved
		}
	}

	if strings.TrimSpace(sanitized) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(sanitized))
	if err != nil {
		return ""
	}
	return firstLargeImage(doc, base)
}

// metadataImage 는 readability 가 메타데이터에서 찾은 대표 이미지 URL 을 반환한다.
func metadataImage(raw string, base *url.URL) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	article, err := readability.FromDocument(doc, base)
	if err != nil {
		return ""
	}
	src := strings.TrimSpace(article.Image)
	if strings.HasPrefix(strings.ToLower(src), "javascript:") || strings.HasPrefix(src, "data:") {
		return ""
	}
	return src
}

func firstLargeImage(doc *html.Node, base *url.URL) string {
	var result string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil || result != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "img" {
			if src := imageSource(n); src != "" {
				result = resolve(src, base)
				return
			}
		}
		for c := n.FirstChild; c != nil && result == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return result
}

// imageSource 는 크기 선언이 없거나 기준 이상인 img 의 src 를 반환한다.
func imageSource(n *html.Node) string {
	var src string
	var width, height int
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "src":
			src = strings.TrimSpace(a.Val)
		case "width":
			width, _ = strconv.Atoi(a.Val)
		case "height":
			height, _ = strconv.Atoi(a.Val)
		}
	}
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	if width > 0 && width < minCoverWidth {
		return ""
	}
	if height > 0 && height < minCoverHeight {
		return ""
	}
	return src
}

func resolve(src string, base *url.URL) string {
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if ref.IsAbs() || base == nil || base.Host == "" {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
