package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// PageSize is the default number of books requested per catalog page.
	// A page shorter than the requested size marks the end of the catalog.
	PageSize = 20

	// MaxPageSize is the largest page the catalog serves
	MaxPageSize = 40
)

// ClampPageSize maps size into 1..MaxPageSize; non-positive sizes use PageSize
func ClampPageSize(size int) int {
	switch {
	case size <= 0:
		return PageSize
	case size > MaxPageSize:
		return MaxPageSize
	}
	return size
}

// Saleability mirrors the catalog's sale status for a volume
type Saleability string

const (
	SaleabilityForSale    Saleability = "FOR_SALE"
	SaleabilityFree       Saleability = "FREE"
	SaleabilityNotForSale Saleability = "NOT_FOR_SALE"
)

// Price is a list or retail price in a given currency
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

// Book is a single catalog volume
type Book struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle,omitempty"`
	Authors       []string    `json:"authors,omitempty"`
	Publisher     string      `json:"publisher,omitempty"`
	PublishedDate string      `json:"published_date,omitempty"` // "2004", "2004-05" or "2004-05-12"
	Description   string      `json:"description,omitempty"`
	PageCount     int         `json:"page_count,omitempty"`
	Categories    []string    `json:"categories,omitempty"`
	AverageRating float64     `json:"average_rating,omitempty"` // 0-5 scale
	RatingsCount  int         `json:"ratings_count,omitempty"`
	ThumbnailURL  string      `json:"thumbnail_url,omitempty"`
	InfoURL       string      `json:"info_url,omitempty"`
	BuyURL        string      `json:"buy_url,omitempty"`
	Saleability   Saleability `json:"saleability,omitempty"`
	Price         *Price      `json:"price,omitempty"`
}

// AuthorLine joins the authors for display
func (b Book) AuthorLine() string {
	if len(b.Authors) == 0 {
		return "Unknown author"
	}
	return strings.Join(b.Authors, ", ")
}

// Year returns the publication year, or 0 if the date is missing or malformed
func (b Book) Year() int {
	if len(b.PublishedDate) < 4 {
		return 0
	}
	t, err := time.Parse("2006", b.PublishedDate[:4])
	if err != nil {
		return 0
	}
	return t.Year()
}

// DisplayTitle returns the title with the year appended when known
func (b Book) DisplayTitle() string {
	if y := b.Year(); y > 0 {
		return fmt.Sprintf("%s (%d)", b.Title, y)
	}
	return b.Title
}

// FormattedPrice renders the price, or the sale status when there is none
func (b Book) FormattedPrice() string {
	switch {
	case b.Price != nil:
		return fmt.Sprintf("%.2f %s", b.Price.Amount, b.Price.CurrencyCode)
	case b.Saleability == SaleabilityFree:
		return "Free"
	default:
		return "Not for sale"
	}
}

// LinkURL returns the best link to open for this book (buy link first)
func (b Book) LinkURL() string {
	if b.BuyURL != "" {
		return b.BuyURL
	}
	return b.InfoURL
}

// BookListResponse is one page of catalog results
type BookListResponse struct {
	Items      []*Book
	TotalItems int // As reported by the catalog; may be approximate
	Offset     int // Offset of Items[0] within the result set
	Returned   int // Entries the catalog sent, including ones dropped while mapping
}

// Received returns how many catalog entries this page consumed
func (r BookListResponse) Received() int {
	if r.Returned > len(r.Items) {
		return r.Returned
	}
	return len(r.Items)
}

// NextOffset returns the offset of the page that follows this one
func (r BookListResponse) NextOffset() int {
	return r.Offset + r.Received()
}

// IsLastPage reports whether this page ends the result set when pages of
// pageSize were requested
func (r BookListResponse) IsLastPage(pageSize int) bool {
	return r.Received() < ClampPageSize(pageSize)
}
