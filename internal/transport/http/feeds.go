package http

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// RSS serves the published posts as an RSS 2.0 feed.
func (r *Routers) RSS(c echo.Context) error {
	posts, err := r.BlogService.ListPublishedPosts(c.Request().Context(), "", "")
	if err != nil {
		r.log.Error("failed to list posts", slog.String("op", "http.routers.RSS"), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	base := r.site.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := buildURL(base, "blog", p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.ExcerptText(),
			GUID:        link,
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       r.site.Name,
			Link:        buildURL(base, "blog"),
			Description: r.site.Description,
			Items:       items,
		},
	}

	return writeXML(c, "application/rss+xml; charset=utf-8", feed)
}

// Sitemap lists the front page, the blog index and every published post.
func (r *Routers) Sitemap(c echo.Context) error {
	posts, err := r.BlogService.ListPublishedPosts(c.Request().Context(), "", "")
	if err != nil {
		r.log.Error("failed to list posts", slog.String("op", "http.routers.Sitemap"), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	base := r.site.URL
	urls := []sitemapURL{
		{Loc: buildURL(base)},
		{Loc: buildURL(base, "blog")},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     buildURL(base, "blog", p.Slug),
			LastMod: lastMod(p),
		})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	return writeXML(c, "application/xml; charset=utf-8", sitemap)
}

func writeXML(c echo.Context, contentType string, v interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(v)
}

func lastMod(p models.BlogPost) string {
	if p.UpdatedAt.IsZero() {
		return ""
	}
	return p.UpdatedAt.UTC().Format("2006-01-02")
}

// buildURL joins path segments onto base, escaping each segment.
func buildURL(base string, segments ...string) string {
	out := strings.TrimRight(base, "/")
	for _, s := range segments {
		out += "/" + url.PathEscape(s)
	}
	if len(segments) == 0 {
		out += "/"
	}
	return out
}
