// Package feed 는 최신 포스트 목록을 RSS 2.0 문서로 만든다.
package feed

import (
	"encoding/xml"
	"strings"
	"time"

	"blog-front/cmd/web/clients/contentclient"
)

type Channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Items         []Item `xml:"item"`
}

type Item struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	GUID        string     `xml:"guid"`
	PubDate     string     `xml:"pubDate,omitempty"`
	Category    string     `xml:"category,omitempty"`
	Description string     `xml:"description,omitempty"`
	Enclosure   *Enclosure `xml:"enclosure,omitempty"`
}

type Enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Site 는 피드 채널 정보다. BaseURL 은 포스트 링크의 절대 경로를 만드는 데 쓰인다.
type Site struct {
	Title       string
	Description string
	BaseURL     string
	// ResolveAsset 은 cover_image 를 절대 URL 로 바꾼다. nil 이면 enclosure 를 생략한다.
	ResolveAsset func(ref string) string
}

// Build 는 포스트 목록을 RSS 2.0 XML 로 직렬화한다. 포스트 순서는 그대로 유지한다.
func Build(site Site, posts []contentclient.Post, now time.Time) ([]byte, error) {
	base := strings.TrimRight(site.BaseURL, "/")
	ch := Channel{
		Title:         site.Title,
		Link:          base + "/",
		Description:   site.Description,
		LastBuildDate: now.UTC().Format(time.RFC1123Z),
		Items:         make([]Item, 0, len(posts)),
	}
	for _, p := range posts {
		link := base + "/post/" + p.Slug
		item := Item{
			Title:       p.Title,
			Link:        link,
			GUID:        link,
			PubDate:     pubDate(p.UpdatedOn),
			Category:    p.Category.Name,
			Description: p.MetaDescription,
		}
		if site.ResolveAsset != nil && p.CoverImage != "" {
			item.Enclosure = &Enclosure{URL: site.ResolveAsset(p.CoverImage), Type: imageType(p.CoverImage)}
		}
		ch.Items = append(ch.Items, item)
	}

	out, err := xml.MarshalIndent(rss{Version: "2.0", Channel: ch}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func pubDate(updatedOn string) string {
	if t, err := time.Parse(time.RFC3339, updatedOn); err == nil {
		return t.UTC().Format(time.RFC1123Z)
	}
	if len(updatedOn) >= 10 {
		if t, err := time.Parse(time.DateOnly, updatedOn[:10]); err == nil {
			return t.UTC().Format(time.RFC1123Z)
		}
	}
	return ""
}

func imageType(ref string) string {
	lower := strings.ToLower(ref)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
