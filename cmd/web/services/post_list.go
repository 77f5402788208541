package services

import (
	"context"
	"sync"

	"blog-front/cmd/internal/logger"
	"blog-front/cmd/web/clients/contentclient"
	"blog-front/cmd/web/dto"
	"blog-front/cmd/web/trace"
)

// PageFetcher 는 목록 페이지 하나를 가져오는 content API 호출이다.
type PageFetcher interface {
	ListPosts(ctx context.Context, page int) (contentclient.PostPage, error)
}

type PostListOptions struct {
	// HiddenLeading 은 가져온 페이지의 앞에서부터 화면에 표시하지 않을 포스트 수다.
	HiddenLeading int
	Cards         CardMapper
}

// PostList 는 목록 화면 상태(현재 페이지, 현재 페이지의 포스트)를 소유한다.
//
// - RequestPage 는 범위 검사 없이 currentPage 를 바꾸고 페이지를 가져온다.
// - 요청마다 증가하는 시퀀스 번호를 붙여, 가장 마지막 요청의 응답만 반영한다.
// - 가져오기 실패는 로그만 남기고 기존 포스트를 그대로 둔다.
type PostList struct {
	fetcher PageFetcher
	opts    PostListOptions

	mu          sync.Mutex
	currentPage int
	totalPages  int
	posts       []contentclient.Post
	seq         uint64
}

func NewPostList(fetcher PageFetcher, opts PostListOptions) *PostList {
	if opts.HiddenLeading < 0 {
		opts.HiddenLeading = 0
	}
	return &PostList{
		fetcher:     fetcher,
		opts:        opts,
		currentPage: 1,
	}
}

// RequestPage 는 currentPage 를 n 으로 바꾸고 해당 페이지를 가져와 posts 를 교체한다.
// 응답이 도착했을 때 더 최신 요청이 이미 나갔다면 응답은 버린다.
func (l *PostList) RequestPage(ctx context.Context, n int) {
	l.mu.Lock()
	l.currentPage = n
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	page, err := l.fetcher.ListPosts(ctx, n)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		logger.WarnWithFields("post list fetch failed, keeping stale posts", logger.Fields{
			"page":       n,
			"seq":        seq,
			"request_id": trace.RequestIDFromContext(ctx),
			"error":      err.Error(),
		})
		return
	}
	if seq != l.seq {
		logger.DebugWithFields("discarding stale post list response", logger.Fields{
			"page":       n,
			"seq":        seq,
			"latest_seq": l.seq,
		})
		return
	}
	l.posts = page.Results
	if page.TotalPages > 0 {
		l.totalPages = page.TotalPages
	}
}

// HasPrevious 는 "이전" 버튼 활성화 여부다. 1페이지에서는 비활성화된다.
func (l *PostList) HasPrevious() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasPreviousLocked()
}

// HasNext 는 "다음" 버튼 활성화 여부다. 마지막 페이지이거나 전체 페이지 수를 모르면 비활성화된다.
func (l *PostList) HasNext() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasNextLocked()
}

func (l *PostList) hasPreviousLocked() bool {
	return l.currentPage > 1
}

func (l *PostList) hasNextLocked() bool {
	return l.totalPages > 0 && l.currentPage < l.totalPages
}

// View 는 현재 상태의 표시 모델을 만든다. 앞쪽 HiddenLeading 개의 포스트는 제외된다.
func (l *PostList) View() dto.PostListPageDTO {
	l.mu.Lock()
	defer l.mu.Unlock()

	visible := l.posts
	if l.opts.HiddenLeading >= len(visible) {
		visible = nil
	} else {
		visible = visible[l.opts.HiddenLeading:]
	}

	return dto.PostListPageDTO{
		Page:         l.currentPage,
		TotalPages:   l.totalPages,
		HasPrevious:  l.hasPreviousLocked(),
		HasNext:      l.hasNextLocked(),
		PreviousPage: l.currentPage - 1,
		NextPage:     l.currentPage + 1,
		Posts:        l.opts.Cards.Cards(visible, nil, 0),
	}
}

// PostListService 는 요청마다 새 PostList 를 만들어 한 페이지를 렌더링용 DTO 로 변환한다.
type PostListService struct {
	fetcher PageFetcher
	opts    PostListOptions
}

func NewPostListService(fetcher PageFetcher, opts PostListOptions) *PostListService {
	return &PostListService{fetcher: fetcher, opts: opts}
}

// Page 는 n 페이지의 표시 모델을 반환한다. 가져오기에 실패하면 포스트가 비어 있는 모델이 된다.
func (s *PostListService) Page(ctx context.Context, n int) dto.PostListPageDTO {
	list := NewPostList(s.fetcher, s.opts)
	list.RequestPage(ctx, n)
	return list.View()
}
