// Package janlookup resolves 13-digit JAN/ISBN codes: products from a local
// catalog, books from a public metadata API.
package janlookup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/cache"
	"github.com/f130r/workspace01/internal/logging"
)

var (
	ErrInvalidCode = errors.New("JAN code must be 13 ASCII digits")
	ErrNotFound    = errors.New("no item matches this code")
)

// Validate accepts exactly 13 ASCII digits.
func Validate(code string) error {
	if len(code) != 13 {
		return ErrInvalidCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrInvalidCode
		}
	}
	return nil
}

// CheckDigitOK verifies the GS1 mod-10 check digit. It is informational:
// a bad check digit does not make a code invalid for lookup.
func CheckDigitOK(code string) bool {
	if Validate(code) != nil {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(code[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10-sum%10)%10 == int(code[12]-'0')
}

// IsISBN reports whether the code is in the Bookland (978/979) prefix range.
func IsISBN(code string) bool {
	return strings.HasPrefix(code, "978") || strings.HasPrefix(code, "979")
}

// Item is a lookup hit, either a product or a book.
type Item struct {
	Code     string
	Name     string
	Category string
	Maker    string
	Price    int // yen, 0 when unknown
	Authors  []string
	Source   string // "catalog" or "books"
}

// Fields returns label/value rows for table display.
func (it Item) Fields() [][2]string {
	rows := [][2]string{{"商品名", it.Name}, {"カテゴリ", it.Category}, {"メーカー", it.Maker}}
	if len(it.Authors) > 0 {
		rows = append(rows, [2]string{"著者", strings.Join(it.Authors, ", ")})
	}
	if it.Price > 0 {
		rows = append(rows, [2]string{"価格", fmt.Sprintf("¥%d", it.Price)})
	}
	return rows
}

// Catalog is the local product table.
type Catalog map[string]Item

// DemoCatalog returns the demo products.
func DemoCatalog() Catalog {
	items := []Item{
		{Code: "4901234567890", Name: "特選コーヒー豆ブレンドA 200g", Category: "飲料・食品", Maker: "山川食品", Price: 1280},
		{Code: "4998765432109", Name: "超音波式加湿器 S-100", Category: "家電製品", Maker: "未来テクノロジー", Price: 4980},
		{Code: "4500000000001", Name: "高級ノート B5サイズ 100枚", Category: "文房具", Maker: "文具のタナカ", Price: 350},
		{Code: "4911122233445", Name: "プレミアムチョコレート 10個入", Category: "菓子", Maker: "甘味堂", Price: 550},
	}
	c := Catalog{}
	for _, it := range items {
		it.Source = "catalog"
		c[it.Code] = it
	}
	return c
}

// Codes lists catalog codes in sorted order.
func (c Catalog) Codes() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup validates the code and returns the catalog entry.
func (c Catalog) Lookup(code string) (Item, error) {
	if err := Validate(code); err != nil {
		return Item{}, err
	}
	it, ok := c[code]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return it, nil
}

// BookSource looks up book metadata by ISBN-13.
type BookSource interface {
	LookupBook(ctx context.Context, isbn string) (Item, error)
}

// Service routes ISBNs to the book source (when configured) and everything
// else to the catalog. Hits and misses from the book source are cached.
type Service struct {
	Catalog Catalog
	Books   BookSource
	Cache   *cache.MemoryCache[Item]
	Log     *zap.Logger
}

func (s *Service) Lookup(ctx context.Context, code string) (Item, error) {
	code = strings.TrimSpace(code)
	if err := Validate(code); err != nil {
		return Item{}, err
	}
	log := logging.OrNop(s.Log)

	if it, ok := s.Catalog[code]; ok {
		return it, nil
	}
	if s.Books == nil || !IsISBN(code) {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}

	if s.Cache != nil {
		if it, ok := s.Cache.Get(code); ok {
			log.Debug("book cache hit", zap.String("isbn", code))
			if it.Name == "" {
				return Item{}, fmt.Errorf("%w: %s", ErrNotFound, code)
			}
			return it, nil
		}
	}

	it, err := s.Books.LookupBook(ctx, code)
	switch {
	case errors.Is(err, ErrNotFound):
		if s.Cache != nil {
			s.Cache.Set(code, Item{})
		}
		return Item{}, err
	case err != nil:
		log.Warn("book lookup failed", zap.String("isbn", code), zap.Error(err))
		return Item{}, err
	}
	if s.Cache != nil {
		s.Cache.Set(code, it)
	}
	return it, nil
}
