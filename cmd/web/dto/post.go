package dto

import "html/template"

// PostCardDTO 는 목록 페이지와 상세 페이지의 related/popular 섹션이 함께 쓰는 카드 표시 모델이다.
// 제목은 이미 잘려 있고 날짜는 "02 January 2006" 형식으로 포맷되어 있다.
type PostCardDTO struct {
	ID            int64  `json:"id"`
	Slug          string `json:"slug"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	CoverImageURL string `json:"cover_image_url"`
	Category      string `json:"category"`
	PublishedOn   string `json:"published_on"`
}

// PostListPageDTO 는 목록 페이지 하나의 표시 모델이다.
// HasPrevious/HasNext 는 버튼 활성화용 힌트일 뿐 요청을 막지 않는다.
type PostListPageDTO struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	HasPrevious  bool          `json:"has_previous"`
	HasNext      bool          `json:"has_next"`
	PreviousPage int           `json:"previous_page"`
	NextPage     int           `json:"next_page"`
	Posts        []PostCardDTO `json:"posts"`
}

// PostDetailDTO 는 상세 페이지 본문 영역의 표시 모델이다.
// ContentHTML 은 sanitize 를 거친 HTML 이다.
type PostDetailDTO struct {
	ID              int64         `json:"id"`
	Slug            string        `json:"slug"`
	Title           string        `json:"title"`
	Category        string        `json:"category"`
	CoverImageURL   string        `json:"cover_image_url"`
	PublishedOn     string        `json:"published_on"`
	MetaDescription string        `json:"meta_description"`
	ContentHTML     template.HTML `json:"content_html"`
}

// PostDetailPageDTO 는 상세 페이지 전체 표시 모델이다.
type PostDetailPageDTO struct {
	Post    PostDetailDTO `json:"post"`
	Related []PostCardDTO `json:"related"`
	Popular []PostCardDTO `json:"popular"`
}
