package contentclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"blog-front/cmd/web/httpclient"
)

// Client는 블로그 content API를 호출하는 얇은 클라이언트다.
//
// - 페이지네이션/연관 글/인기 글 계산은 모두 content API 가 담당한다.
// - blog-front 의 services 가 이 클라이언트를 사용해 화면용 DTO를 조합한다.
//
// baseURL 예: http://127.0.0.1:8000
type Client struct {
	base *httpclient.BaseClient
}

// ErrNotFound 는 slug 나 category 가 존재하지 않을 때(404) 반환된다.
var ErrNotFound = errors.New("resource not found")

// StatusError 는 404 이외의 non-2xx 응답을 나타낸다.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("content-api %s: status=%d body=%s", e.Op, e.StatusCode, e.Body)
}

func New(baseURL string, cfg httpclient.Config) *Client {
	return &Client{base: httpclient.NewBaseClient(baseURL, cfg)}
}

// NewWithBase 는 이미 구성된 BaseClient 로 Client 를 만든다. 테스트에서 사용한다.
func NewWithBase(base *httpclient.BaseClient) *Client {
	return &Client{base: base}
}

// -------------------- Types --------------------

type Category struct {
	Name string `json:"name"`
}

// Post 는 content API 가 내려주는 포스트 레코드다.
// updated_on 은 ISO-8601 문자열 그대로 보관하고, 날짜 포맷은 화면 단에서 처리한다.
type Post struct {
	ID              int64    `json:"id"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	CoverImage      string   `json:"cover_image"`
	UpdatedOn       string   `json:"updated_on"`
	Category        Category `json:"category"`
	Content         string   `json:"content"`
	MetaDescription string   `json:"meta_description"`
}

// PostPage 는 GET /api/posts?page=n 응답이다.
type PostPage struct {
	Page       int    `json:"-"`
	TotalPages int    `json:"total_pages"`
	Results    []Post `json:"results"`
}

type categoryPostsResponse struct {
	Results []Post `json:"results"`
}

// -------------------- Posts --------------------

// ListPosts 는 GET /api/posts?page={n} 를 호출한다.
func (c *Client) ListPosts(ctx context.Context, page int) (PostPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var out PostPage
	if err := c.getJSON(ctx, "ListPosts", "/api/posts", q, &out); err != nil {
		return PostPage{}, err
	}
	out.Page = page
	return out, nil
}

// GetPost 는 slug 로 단일 포스트를 조회한다.
// 존재하지 않으면 ErrNotFound 를 반환한다.
func (c *Client) GetPost(ctx context.Context, slug string) (Post, error) {
	var out Post
	if err := c.getJSON(ctx, "GetPost", "/api/post/"+url.PathEscape(slug), nil, &out); err != nil {
		return Post{}, err
	}
	return out, nil
}

// ListCategoryPosts 는 GET /api/category/{name} 을 호출해 같은 카테고리의 포스트를 가져온다.
func (c *Client) ListCategoryPosts(ctx context.Context, category string) ([]Post, error) {
	var out categoryPostsResponse
	if err := c.getJSON(ctx, "ListCategoryPosts", "/api/category/"+url.PathEscape(category), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ListPopularPosts 는 GET /api/popular/{name} 을 호출한다. 응답은 감싸지 않은 배열이다.
func (c *Client) ListPopularPosts(ctx context.Context, category string) ([]Post, error) {
	var out []Post
	if err := c.getJSON(ctx, "ListPopularPosts", "/api/popular/"+url.PathEscape(category), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health 는 첫 페이지 목록 호출로 content API 상태를 확인한다.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.ListPosts(ctx, 1)
	return err
}

func (c *Client) getJSON(ctx context.Context, op, relPath string, query url.Values, out any) error {
	req, err := c.base.NewRequest(ctx, http.MethodGet, relPath, query, nil)
	if err != nil {
		return fmt.Errorf("content-api %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return fmt.Errorf("content-api %s: %w", op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("content-api %s: decode: %w", op, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("content-api %s: %w", op, ErrNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
}
