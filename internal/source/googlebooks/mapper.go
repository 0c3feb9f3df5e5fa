package googlebooks

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/bookstore/internal/domain"
)

// descriptionPolicy strips all markup from descriptions
var descriptionPolicy = bluemonday.StrictPolicy()

// paragraphBreaks turns block markup into newlines before sanitizing
var paragraphBreaks = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "\n\n")

// MapVolumes converts API volumes to domain books, skipping entries without an ID
func MapVolumes(volumes []Volume) []*domain.Book {
	books := make([]*domain.Book, 0, len(volumes))
	for _, v := range volumes {
		if b := MapVolume(v); b != nil {
			books = append(books, b)
		}
	}
	return books
}

// MapVolume converts a single API volume to a domain book
func MapVolume(v Volume) *domain.Book {
	if v.ID == "" {
		return nil
	}
	info := v.VolumeInfo

	book := &domain.Book{
		ID:            v.ID,
		Title:         strings.TrimSpace(info.Title),
		Subtitle:      info.Subtitle,
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   stripTags(info.Description),
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		InfoURL:       info.InfoLink,
		BuyURL:        v.SaleInfo.BuyLink,
		Saleability:   domain.Saleability(v.SaleInfo.Saleability),
	}
	if book.Title == "" {
		book.Title = "Untitled"
	}
	if book.InfoURL == "" {
		book.InfoURL = info.PreviewLink
	}
	if info.ImageLinks != nil {
		book.ThumbnailURL = firstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail)
	}

	// Prefer the retail price; list price is the fallback
	if m := firstMoney(v.SaleInfo.RetailPrice, v.SaleInfo.ListPrice); m != nil {
		book.Price = &domain.Price{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
	}

	return book
}

func firstMoney(ms ...*Money) *Money {
	for _, m := range ms {
		if m != nil && m.CurrencyCode != "" {
			return m
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// stripTags removes the HTML markup the catalog embeds in descriptions
func stripTags(s string) string {
	if s == "" {
		return ""
	}
	text := descriptionPolicy.Sanitize(paragraphBreaks.Replace(s))
	return strings.TrimSpace(html.UnescapeString(text))
}
