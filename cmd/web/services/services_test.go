package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-front/cmd/web/clients/contentclient"
	"blog-front/cmd/web/dto"
	"blog-front/cmd/web/sanitize"
)

func makePosts(ids ...int64) []contentclient.Post {
	out := make([]contentclient.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, contentclient.Post{
			ID:         id,
			Slug:       fmt.Sprintf("post-%d", id),
			Title:      fmt.Sprintf("Post %d", id),
			CoverImage: fmt.Sprintf("/media/%d.png", id),
			UpdatedOn:  "2023-04-05T10:11:12Z",
			Category:   contentclient.Category{Name: "Python"},
		})
	}
	return out
}

func cardIDs(cards []dto.PostCardDTO) []int64 {
	ids := make([]int64, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

var testCards = CardMapper{TitleMaxLength: 70, AssetBaseURL: "http://127.0.0.1:8000"}

// -------------------- Cards --------------------

func TestCardMapping(t *testing.T) {
	post := contentclient.Post{
		ID:         1,
		Slug:       "asyncio basics",
		Title:      "An extremely long title about Python asyncio event loops and why they matter so much",
		CoverImage: "/media/cover.png",
		UpdatedOn:  "2023-04-05T10:11:12.345Z",
		Category:   contentclient.Category{Name: "Python"},
	}

	card := testCards.Card(post)
	assert.Equal(t, "/post/asyncio%20basics", card.URL)
	assert.Equal(t, "http://127.0.0.1:8000/media/cover.png", card.CoverImageURL)
	assert.Equal(t, "05 April 2023", card.PublishedOn)
	assert.Equal(t, "Python", card.Category)
	assert.True(t, strings.HasSuffix(card.Title, "..."))
	assert.LessOrEqual(t, len([]rune(card.Title)), 73)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "01 January 2024", FormatDate("2024-01-01"))
	assert.Equal(t, "", FormatDate("2024"))
	assert.Equal(t, "", FormatDate("not-a-date-at-all"))
}

func TestResolveAssetURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", ResolveAssetURL("http://api", "https://cdn.example.com/a.png"))
	assert.Equal(t, "http://api/media/a.png", ResolveAssetURL("http://api/", "/media/a.png"))
	assert.Equal(t, "http://api/media/a.png", ResolveAssetURL("http://api", "media/a.png"))
	assert.Equal(t, "//cdn/a.png", ResolveAssetURL("http://api", "//cdn/a.png"))
	assert.Equal(t, "", ResolveAssetURL("http://api", ""))
}

// -------------------- PostList --------------------

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[int]contentclient.PostPage
	errs    map[int]error
	gates   map[int]chan struct{}
	started chan int
	calls   []int
}

func (f *fakeFetcher) ListPosts(ctx context.Context, page int) (contentclient.PostPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	gate := f.gates[page]
	f.mu.Unlock()

	if f.started != nil {
		f.started <- page
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[page]; err != nil {
		return contentclient.PostPage{}, err
	}
	p := f.pages[page]
	p.Page = page
	return p, nil
}

func TestPostListSkipsLeadingPosts(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]contentclient.PostPage{
		2: {TotalPages: 3, Results: makePosts(10, 11, 12, 13, 14, 15, 16)},
	}}
	list := NewPostList(fetcher, PostListOptions{HiddenLeading: 3, Cards: testCards})

	list.RequestPage(context.Background(), 2)
	view := list.View()

	assert.Equal(t, []int64{13, 14, 15, 16}, cardIDs(view.Posts))
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 3, view.TotalPages)
	assert.True(t, view.HasPrevious)
	assert.True(t, view.HasNext)
	assert.Equal(t, 1, view.PreviousPage)
	assert.Equal(t, 3, view.NextPage)
}

func TestPostListHiddenLeadingIsConfigurable(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]contentclient.PostPage{
		1: {TotalPages: 1, Results: makePosts(1, 2, 3)},
	}}

	none := NewPostList(fetcher, PostListOptions{HiddenLeading: 0, Cards: testCards})
	none.RequestPage(context.Background(), 1)
	assert.Equal(t, []int64{1, 2, 3}, cardIDs(none.View().Posts))

	all := NewPostList(fetcher, PostListOptions{HiddenLeading: 3, Cards: testCards})
	all.RequestPage(context.Background(), 1)
	assert.Empty(t, all.View().Posts)

	more := NewPostList(fetcher, PostListOptions{HiddenLeading: 10, Cards: testCards})
	more.RequestPage(context.Background(), 1)
	assert.Empty(t, more.View().Posts)
}

func TestPostListAffordances(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]contentclient.PostPage{
		1: {TotalPages: 2, Results: makePosts(1)},
		2: {TotalPages: 2, Results: makePosts(2)},
	}}
	list := NewPostList(fetcher, PostListOptions{Cards: testCards})

	// 아직 아무것도 가져오지 않은 상태: 1페이지, 전체 페이지 수 미상
	assert.False(t, list.HasPrevious())
	assert.False(t, list.HasNext())

	list.RequestPage(context.Background(), 1)
	assert.False(t, list.HasPrevious())
	assert.True(t, list.HasNext())

	list.RequestPage(context.Background(), 2)
	assert.True(t, list.HasPrevious())
	assert.False(t, list.HasNext())
}

func TestPostListDoesNotRejectOutOfRangePages(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int]contentclient.PostPage{1: {TotalPages: 1, Results: makePosts(1, 2, 3, 4)}},
		errs:  map[int]error{0: errors.New("invalid page"), 9: contentclient.ErrNotFound},
	}
	list := NewPostList(fetcher, PostListOptions{HiddenLeading: 3, Cards: testCards})

	list.RequestPage(context.Background(), 1)
	list.RequestPage(context.Background(), 0)
	assert.Equal(t, 0, list.View().Page)
	list.RequestPage(context.Background(), 9)
	assert.Equal(t, 9, list.View().Page)

	assert.Equal(t, []int{1, 0, 9}, fetcher.calls)
}

func TestPostListFailureKeepsStalePosts(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int]contentclient.PostPage{1: {TotalPages: 5, Results: makePosts(1, 2, 3, 4, 5)}},
		errs:  map[int]error{2: errors.New("connection refused")},
	}
	list := NewPostList(fetcher, PostListOptions{HiddenLeading: 3, Cards: testCards})

	list.RequestPage(context.Background(), 1)
	list.RequestPage(context.Background(), 2)

	view := list.View()
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 5, view.TotalPages)
	assert.Equal(t, []int64{4, 5}, cardIDs(view.Posts))
}

func TestPostListDiscardsStaleResponse(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int]contentclient.PostPage{
			1: {TotalPages: 3, Results: makePosts(1, 2, 3, 4)},
			2: {TotalPages: 3, Results: makePosts(5, 6, 7, 8)},
		},
		gates:   map[int]chan struct{}{1: make(chan struct{})},
		started: make(chan int, 2),
	}
	list := NewPostList(fetcher, PostListOptions{HiddenLeading: 3, Cards: testCards})

	done := make(chan struct{})
	go func() {
		defer close(done)
		list.RequestPage(context.Background(), 1)
	}()
	require.Equal(t, 1, <-fetcher.started)

	list.RequestPage(context.Background(), 2)
	require.Equal(t, 2, <-fetcher.started)

	close(fetcher.gates[1])
	<-done

	view := list.View()
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, []int64{8}, cardIDs(view.Posts))
}

func TestPostListServicePage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]contentclient.PostPage{
		2: {TotalPages: 2, Results: makePosts(1, 2, 3, 4, 5, 6, 7)},
	}}
	svc := NewPostListService(fetcher, PostListOptions{HiddenLeading: 3, Cards: testCards})

	view := svc.Page(context.Background(), 2)
	assert.Equal(t, []int64{4, 5, 6, 7}, cardIDs(view.Posts))
	assert.False(t, view.HasNext)
}

// -------------------- PostDetail --------------------

type fakeSource struct {
	post       contentclient.Post
	postErr    error
	related    []contentclient.Post
	relatedErr error
	popular    []contentclient.Post
	popularErr error

	mu         sync.Mutex
	categories []string
}

func (f *fakeSource) GetPost(ctx context.Context, slug string) (contentclient.Post, error) {
	if f.postErr != nil {
		return contentclient.Post{}, f.postErr
	}
	return f.post, nil
}

func (f *fakeSource) ListCategoryPosts(ctx context.Context, category string) ([]contentclient.Post, error) {
	f.mu.Lock()
	f.categories = append(f.categories, "related:"+category)
	f.mu.Unlock()
	return f.related, f.relatedErr
}

func (f *fakeSource) ListPopularPosts(ctx context.Context, category string) ([]contentclient.Post, error) {
	f.mu.Lock()
	f.categories = append(f.categories, "popular:"+category)
	f.mu.Unlock()
	return f.popular, f.popularErr
}

type fakeSanitizer struct{}

func (fakeSanitizer) Sanitize(raw string) template.HTML {
	return template.HTML(strings.ReplaceAll(raw, "<script>bad()</script>", ""))
}

func newDetailService(src PostSource) *PostDetailService {
	return NewPostDetailService(src, fakeSanitizer{}, PostDetailOptions{
		RelatedLimit: 5,
		PopularLimit: 12,
		Cards:        testCards,
	})
}

func primaryPost() contentclient.Post {
	p := makePosts(5)[0]
	p.Content = "<p>Hello</p><script>bad()</script>"
	p.MetaDescription = "About post 5"
	return p
}

func TestDetailExcludesPrimaryFromRelated(t *testing.T) {
	src := &fakeSource{post: primaryPost(), related: makePosts(5, 6, 7, 8, 9, 10)}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7, 8, 9, 10}, cardIDs(view.Related))
}

func TestDetailLimitsSections(t *testing.T) {
	var many []int64
	for i := int64(1); i <= 20; i++ {
		many = append(many, i)
	}
	src := &fakeSource{post: primaryPost(), related: makePosts(many...), popular: makePosts(many...)}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3, 4, 6}, cardIDs(view.Related))
	assert.Len(t, view.Popular, 12)
	assert.NotContains(t, cardIDs(view.Popular), int64(5))
	assert.Equal(t, int64(13), view.Popular[11].ID)
}

func TestDetailSectionsNeverExceedSource(t *testing.T) {
	src := &fakeSource{post: primaryPost(), related: makePosts(7, 5), popular: makePosts(5)}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, cardIDs(view.Related))
	assert.Empty(t, view.Popular)
}

func TestDetailPrimaryFailureIsFatal(t *testing.T) {
	src := &fakeSource{postErr: fmt.Errorf("content-api GetPost: %w", contentclient.ErrNotFound)}

	_, err := newDetailService(src).Load(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, contentclient.ErrNotFound)
	assert.Empty(t, src.categories, "secondary fetches must not run without the primary post")
}

func TestDetailSecondaryFailuresDegradeToEmpty(t *testing.T) {
	src := &fakeSource{
		post:       primaryPost(),
		relatedErr: errors.New("timeout"),
		popular:    makePosts(8, 9),
	}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Empty(t, view.Related)
	assert.Equal(t, []int64{8, 9}, cardIDs(view.Popular))

	src = &fakeSource{post: primaryPost(), related: makePosts(8), popularErr: contentclient.ErrNotFound}
	view, err = newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, cardIDs(view.Related))
	assert.Empty(t, view.Popular)
}

func TestDetailBothSectionsFailing(t *testing.T) {
	src := &fakeSource{
		post:       primaryPost(),
		relatedErr: errors.New("timeout"),
		popularErr: errors.New("connection reset"),
	}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Equal(t, "post-5", view.Post.Slug)
	assert.Empty(t, view.Related)
	assert.Empty(t, view.Popular)
}

func TestDetailUsesPrimaryCategory(t *testing.T) {
	src := &fakeSource{post: primaryPost()}

	_, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"related:Python", "popular:Python"}, src.categories)
}

func TestDetailSkipsSectionsWithoutCategory(t *testing.T) {
	post := primaryPost()
	post.Category.Name = ""
	src := &fakeSource{post: post, related: makePosts(1)}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Empty(t, src.categories)
	assert.Empty(t, view.Related)
}

func TestDetailSanitizesContentAndKeepsFullTitle(t *testing.T) {
	post := primaryPost()
	post.Title = strings.Repeat("word ", 30)
	src := &fakeSource{post: post}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Equal(t, template.HTML("<p>Hello</p>"), view.Post.ContentHTML)
	assert.Equal(t, post.Title, view.Post.Title)
	assert.Equal(t, "About post 5", view.Post.MetaDescription)
	assert.Equal(t, "05 April 2023", view.Post.PublishedOn)
	assert.Equal(t, "http://127.0.0.1:8000/media/5.png", view.Post.CoverImageURL)
}

func TestDetailMetaDescriptionFallback(t *testing.T) {
	post := primaryPost()
	post.MetaDescription = "  "
	post.Content = "<p>" + strings.Repeat("lorem ipsum ", 40) + "</p>"
	src := &fakeSource{post: post}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(view.Post.MetaDescription, "lorem ipsum lorem"))
	assert.True(t, strings.HasSuffix(view.Post.MetaDescription, "..."))
	assert.LessOrEqual(t, len(view.Post.MetaDescription), 163)
}

func TestDetailTruncatesCardTitles(t *testing.T) {
	related := makePosts(6)
	related[0].Title = strings.Repeat("abcdefghij ", 10)
	src := &fakeSource{post: primaryPost(), related: related}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	require.Len(t, view.Related, 1)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("abcdefghij ", 6))+"...", view.Related[0].Title)
}

func TestDetailCoverFallsBackToContentImage(t *testing.T) {
	post := primaryPost()
	post.CoverImage = ""
	post.Content = `<p>Intro</p><img src="/media/inline.png" width="640" height="320">`
	src := &fakeSource{post: post}

	view, err := newDetailService(src).Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000/media/inline.png", view.Post.CoverImageURL)
}

func TestDetailCoverUsesOpenGraphFromRawContent(t *testing.T) {
	post := primaryPost()
	post.CoverImage = ""
	post.Content = `<meta property="og:image" content="https://cdn.example.com/og.png"><p>Intro</p>` +
		`<img src="/media/inline.png" width="640" height="320">`
	svc := NewPostDetailService(&fakeSource{post: post}, sanitize.NewPolicy(), PostDetailOptions{Cards: testCards})

	view, err := svc.Load(context.Background(), "post-5")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/og.png", view.Post.CoverImageURL)
	assert.NotContains(t, string(view.Post.ContentHTML), "og:image")
}
