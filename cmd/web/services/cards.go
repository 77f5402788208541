package services

import (
	"net/url"
	"strings"
	"time"

	"blog-front/cmd/web/clients/contentclient"
	"blog-front/cmd/web/dto"
	"blog-front/cmd/web/textutil"
)

// DisplayDateLayout 은 "05 April 2023" 형태의 표시용 날짜 포맷이다.
const DisplayDateLayout = "02 January 2006"

// CardMapper 는 content API 포스트를 목록/상세가 공유하는 PostCardDTO 로 변환한다.
type CardMapper struct {
	TitleMaxLength int
	// AssetBaseURL 은 상대 경로 cover_image 를 절대 URL 로 만들 때 쓰는 호스트다.
	AssetBaseURL string
}

func (m CardMapper) Card(p contentclient.Post) dto.PostCardDTO {
	return dto.PostCardDTO{
		ID:            p.ID,
		Slug:          p.Slug,
		URL:           PostPath(p.Slug),
		Title:         textutil.Truncate(p.Title, m.TitleMaxLength),
		CoverImageURL: ResolveAssetURL(m.AssetBaseURL, p.CoverImage),
		Category:      p.Category.Name,
		PublishedOn:   FormatDate(p.UpdatedOn),
	}
}

// Cards 는 excludeID 와 같은 id 를 가진 포스트를 빼고 순서를 유지한 채 최대 limit 개의 카드를 만든다.
// limit 이 0 이하이면 개수 제한 없이 변환한다.
func (m CardMapper) Cards(posts []contentclient.Post, excludeID *int64, limit int) []dto.PostCardDTO {
	out := make([]dto.PostCardDTO, 0, len(posts))
	for _, p := range posts {
		if limit > 0 && len(out) >= limit {
			break
		}
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		out = append(out, m.Card(p))
	}
	return out
}

// PostPath 는 상세 페이지 경로(/post/{slug})를 만든다.
func PostPath(slug string) string {
	return "/post/" + url.PathEscape(slug)
}

// FormatDate 는 updated_on 의 앞 10글자(YYYY-MM-DD)를 표시용 날짜로 바꾼다.
// 파싱할 수 없으면 빈 문자열을 반환한다.
func FormatDate(updatedOn string) string {
	if len(updatedOn) < 10 {
		return ""
	}
	t, err := time.Parse(time.DateOnly, updatedOn[:10])
	if err != nil {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// ResolveAssetURL 은 ref 가 상대 경로이면 base 를 앞에 붙이고, 절대 URL 이면 그대로 반환한다.
func ResolveAssetURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if strings.HasPrefix(ref, "//") || base == "" {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
