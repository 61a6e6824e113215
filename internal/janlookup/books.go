package janlookup

import (
	"context"
	"fmt"
	"net/url"

	"github.com/f130r/workspace01/internal/fetch"
)

// BookClient queries a Google Books compatible volumes endpoint.
type BookClient struct {
	Endpoint string
	HTTP     *fetch.Client
}

type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title       string   `json:"title"`
			Subtitle    string   `json:"subtitle"`
			Authors     []string `json:"authors"`
			Publisher   string   `json:"publisher"`
			Categories  []string `json:"categories"`
			PublishedAt string   `json:"publishedDate"`
		} `json:"volumeInfo"`
		SaleInfo struct {
			ListPrice *struct {
				Amount       float64 `json:"amount"`
				CurrencyCode string  `json:"currencyCode"`
			} `json:"listPrice"`
		} `json:"saleInfo"`
	} `json:"items"`
}

// LookupBook issues one GET; zero results map to ErrNotFound.
func (c *BookClient) LookupBook(ctx context.Context, isbn string) (Item, error) {
	u := c.Endpoint + "?q=" + url.QueryEscape("isbn:"+isbn)

	var resp volumesResponse
	if err := c.HTTP.GetJSON(ctx, u, &resp); err != nil {
		return Item{}, fmt.Errorf("book lookup: %w", err)
	}
	if resp.TotalItems == 0 || len(resp.Items) == 0 {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}

	v := resp.Items[0].VolumeInfo
	it := Item{
		Code:    isbn,
		Name:    v.Title,
		Maker:   v.Publisher,
		Authors: v.Authors,
		Source:  "books",
	}
	if v.Subtitle != "" {
		it.Name += " " + v.Subtitle
	}
	it.Category = "書籍"
	if len(v.Categories) > 0 {
		it.Category = v.Categories[0]
	}
	if p := resp.Items[0].SaleInfo.ListPrice; p != nil && p.CurrencyCode == "JPY" {
		it.Price = int(p.Amount)
	}
	return it, nil
}
