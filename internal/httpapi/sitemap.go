package httpapi

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq string      `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Links      []xhtmlLink `xml:"xhtml:link"`
}

type xhtmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

func (s *Server) handleSitemap(c echo.Context) error {
	entries := s.articles.Sitemap(c.Request().Context())

	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
		URLs:  make([]sitemapURL, 0, len(entries)),
	}
	for _, entry := range entries {
		item := sitemapURL{
			Loc:        entry.Loc,
			ChangeFreq: entry.ChangeFreq,
			Priority:   strconv.FormatFloat(entry.Priority, 'f', 1, 64),
		}
		if !entry.LastMod.IsZero() {
			item.LastMod = entry.LastMod.UTC().Format(time.RFC3339)
		}
		for _, alt := range entry.Alternates {
			item.Links = append(item.Links, xhtmlLink{Rel: "alternate", Hreflang: alt.Hreflang, Href: alt.Href})
		}
		set.URLs = append(set.URLs, item)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		s.logger.Error().Err(err).Msg("encode sitemap failed")
		return c.String(http.StatusInternalServerError, "Internal server error")
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, append([]byte(xml.Header), body...))
}
