package articles

import (
	"context"
	"time"

	"horse.fit/polyglot/internal/globaltime"
	"horse.fit/polyglot/internal/locale"
)

// SitemapEntry is one <url> in the sitemap.
type SitemapEntry struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
	Alternates []Alternate
}

// Alternate is an hreflang link.
type Alternate struct {
	Hreflang string
	Href     string
}

// Sitemap lists the home and category pages of every locale plus every
// published article in every locale. Only the home pages are returned when
// the catalogue cannot be read.
func (s *Service) Sitemap(ctx context.Context) []SitemapEntry {
	now := globaltime.UTC()
	locales := locale.All()

	posts, err := s.repo.ListSitemapArticles(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("sitemap article listing failed, serving home pages only")
		out := make([]SitemapEntry, 0, len(locales))
		for _, loc := range locales {
			out = append(out, SitemapEntry{
				Loc:        s.homeURL(loc),
				LastMod:    now,
				ChangeFreq: "daily",
				Priority:   1,
			})
		}
		return out
	}

	out := make([]SitemapEntry, 0, len(locales)*(1+len(categories)+len(posts)))
	for _, loc := range locales {
		out = append(out, SitemapEntry{
			Loc:        s.homeURL(loc),
			LastMod:    now,
			ChangeFreq: "daily",
			Priority:   1,
			Alternates: s.alternates(s.homeURL),
		})
		for _, category := range categories {
			out = append(out, SitemapEntry{
				Loc:        s.baseURL + "/" + loc.String() + "/category/" + category,
				LastMod:    now,
				ChangeFreq: "daily",
				Priority:   0.8,
			})
		}
	}

	for _, post := range posts {
		postURL := func(loc locale.Locale) string {
			return s.baseURL + "/" + loc.String() + "/posts/" + post.Slug
		}
		for _, loc := range locales {
			out = append(out, SitemapEntry{
				Loc:        postURL(loc),
				LastMod:    post.UpdatedAt.UTC(),
				ChangeFreq: "weekly",
				Priority:   0.9,
				Alternates: s.alternates(postURL),
			})
		}
	}
	return out
}

func (s *Service) homeURL(loc locale.Locale) string {
	return s.baseURL + "/" + loc.String()
}

func (s *Service) alternates(urlFor func(locale.Locale) string) []Alternate {
	locales := locale.All()
	out := make([]Alternate, 0, len(locales)+1)
	for _, loc := range locales {
		out = append(out, Alternate{Hreflang: loc.String(), Href: urlFor(loc)})
	}
	return append(out, Alternate{Hreflang: "x-default", Href: urlFor(locale.Default)})
}
