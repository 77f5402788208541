package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"blog-front/cmd/internal/logger"
	"blog-front/cmd/web/clients/contentclient"
	"blog-front/cmd/web/dto"
	"blog-front/cmd/web/sanitize"
	"blog-front/cmd/web/textutil"
	"blog-front/cmd/web/trace"
)

// PostSource 는 상세 페이지 구성에 필요한 content API 호출들이다.
type PostSource interface {
	GetPost(ctx context.Context, slug string) (contentclient.Post, error)
	ListCategoryPosts(ctx context.Context, category string) ([]contentclient.Post, error)
	ListPopularPosts(ctx context.Context, category string) ([]contentclient.Post, error)
}

type PostDetailOptions struct {
	RelatedLimit int
	PopularLimit int
	// MetaDescriptionLength 는 meta_description 이 비었을 때 본문에서 만드는 요약의 최대 길이다.
	MetaDescriptionLength int
	Cards                 CardMapper
}

// PostDetailService 는 slug 하나에 대한 상세 페이지 표시 모델을 만든다.
//
// - 본문 조회 실패는 그대로 반환한다. (상세 페이지를 만들 수 없음)
// - related/popular 는 본문의 카테고리를 안 뒤에 동시에 가져오고, 실패하면 빈 목록으로 대체한다.
type PostDetailService struct {
	source    PostSource
	sanitizer sanitize.Sanitizer
	opts      PostDetailOptions
}

func NewPostDetailService(source PostSource, sanitizer sanitize.Sanitizer, opts PostDetailOptions) *PostDetailService {
	if opts.MetaDescriptionLength <= 0 {
		opts.MetaDescriptionLength = 160
	}
	return &PostDetailService{source: source, sanitizer: sanitizer, opts: opts}
}

func (s *PostDetailService) Load(ctx context.Context, slug string) (dto.PostDetailPageDTO, error) {
	primary, err := s.source.GetPost(ctx, slug)
	if err != nil {
		return dto.PostDetailPageDTO{}, fmt.Errorf("load post %q: %w", slug, err)
	}

	var related, popular []contentclient.Post
	if category := primary.Category.Name; category != "" {
		// 섹션 실패는 fetchSection 안에서 빈 목록으로 바뀌고 고루틴은 항상 nil 을 반환한다.
		// 한 섹션의 실패가 다른 섹션을 취소하지 않도록 errgroup.WithContext 는 쓰지 않는다.
		var g errgroup.Group
		g.Go(func() error {
			related = s.fetchSection(ctx, "related", category, s.source.ListCategoryPosts)
			return nil
		})
		g.Go(func() error {
			popular = s.fetchSection(ctx, "popular", category, s.source.ListPopularPosts)
			return nil
		})
		_ = g.Wait() // 항상 nil
	}

	return dto.PostDetailPageDTO{
		Post:    s.detail(primary),
		Related: s.opts.Cards.Cards(related, &primary.ID, s.opts.RelatedLimit),
		Popular: s.opts.Cards.Cards(popular, &primary.ID, s.opts.PopularLimit),
	}, nil
}

// fetchSection 은 보조 섹션 하나를 가져온다. 실패하면 경고 로그를 남기고 nil 을 반환한다.
func (s *PostDetailService) fetchSection(
	ctx context.Context,
	section, category string,
	fetch func(context.Context, string) ([]contentclient.Post, error),
) []contentclient.Post {
	posts, err := fetch(ctx, category)
	if err != nil {
		logger.WarnWithFields("post detail section unavailable", logger.Fields{
			"section":    section,
			"category":   category,
			"request_id": trace.RequestIDFromContext(ctx),
			"error":      err.Error(),
		})
		return nil
	}
	return posts
}

func (s *PostDetailService) detail(p contentclient.Post) dto.PostDetailDTO {
	content := s.sanitizer.Sanitize(p.Content)

	description := strings.TrimSpace(p.MetaDescription)
	if description == "" {
		description = textutil.Truncate(sanitize.PlainText(string(content)), s.opts.MetaDescriptionLength)
	}

	cover := ResolveAssetURL(s.opts.Cards.AssetBaseURL, p.CoverImage)
	if cover == "" {
		cover = sanitize.CoverImage(p.Content, string(content), s.opts.Cards.AssetBaseURL)
	}

	return dto.PostDetailDTO{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title,
		Category:        p.Category.Name,
		CoverImageURL:   cover,
		PublishedOn:     FormatDate(p.UpdatedOn),
		MetaDescription: description,
		ContentHTML:     content,
	}
}
