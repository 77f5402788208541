// Package templates 는 blog-front 의 HTML 템플릿을 바이너리에 포함하고 파싱한다.
package templates

import (
	"embed"
	"html/template"
)

//go:embed html/*.html
var files embed.FS

// Template names used with gin's c.HTML.
const (
	ListPage   = "list.html"
	DetailPage = "detail.html"
	ErrorPage  = "error.html"
)

// Site 는 레이아웃 공통 정보다.
type Site struct {
	Title           string
	Description     string
	GAMeasurementID string
}

// Page 는 모든 페이지 템플릿의 루트 데이터다.
// Title 이 비어 있으면 사이트 제목만 출력한다.
type Page struct {
	Site            Site
	Title           string
	MetaDescription string
	// Image 는 og:image 로 출력할 절대 URL 이다.
	Image string
	Data  any
}

// ErrorData 는 error.html 의 Data 다.
type ErrorData struct {
	Status  int
	Message string
}

// Parse 는 포함된 템플릿 전체를 하나의 세트로 파싱한다.
func Parse() (*template.Template, error) {
	return template.New("blog-front").ParseFS(files, "html/*.html")
}

// MustParse 는 Parse 실패 시 panic 한다. 템플릿은 빌드 시점에 고정되므로 기동 시 실패는 버그다.
func MustParse() *template.Template {
	return template.Must(Parse())
}
