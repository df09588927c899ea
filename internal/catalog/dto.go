package catalog

import (
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

// Variation is a purchasable option of a product. Price is in minor units.
type Variation struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	SKU       string   `json:"sku,omitempty"`
	Price     int64    `json:"price"`
	Currency  string   `json:"currency"`
	ImageURLs []string `json:"image_urls"`
}

// Product is the storefront view of a catalog item.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CategoryIDs []string    `json:"category_ids"`
	ImageURLs   []string    `json:"image_urls"`
	Variations  []Variation `json:"variations"`
	UpdatedAt   string      `json:"updated_at,omitempty"`
}

// Category is the storefront view of a catalog category.
type Category struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ImageURLs []string `json:"image_urls"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// ProductQuery filters product search.
type ProductQuery struct {
	Text        string
	CategoryIDs []string
	Limit       int
}

func productFromObject(obj square.CatalogObject, urls map[string]string) Product {
	p := Product{
		ID:          obj.ID,
		CategoryIDs: []string{},
		ImageURLs:   []string{},
		Variations:  []Variation{},
		UpdatedAt:   obj.UpdatedAt,
	}
	item := obj.ItemData
	if item == nil {
		return p
	}
	p.Name = item.Name
	p.Description = item.Description
	p.CategoryIDs = categoryIDs(item)
	p.ImageURLs = resolve(item.ImageIDs, urls)
	for _, v := range item.Variations {
		variation := Variation{ID: v.ID, ImageURLs: []string{}, Currency: "USD"}
		if data := v.ItemVariationData; data != nil {
			variation.Name = data.Name
			variation.SKU = data.SKU
			variation.Price = data.PriceMoney.AmountOrZero()
			if data.PriceMoney != nil && data.PriceMoney.Currency != "" {
				variation.Currency = data.PriceMoney.Currency
			}
			variation.ImageURLs = resolve(data.ImageIDs, urls)
		}
		p.Variations = append(p.Variations, variation)
	}
	return p
}

func categoryFromObject(obj square.CatalogObject, urls map[string]string) Category {
	c := Category{ID: obj.ID, ImageURLs: []string{}, UpdatedAt: obj.UpdatedAt}
	if obj.CategoryData != nil {
		c.Name = obj.CategoryData.Name
		c.ImageURLs = resolve(obj.CategoryData.ImageIDs, urls)
	}
	return c
}

func categoryIDs(item *square.CatalogItem) []string {
	seen := map[string]struct{}{}
	out := []string{}
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, ref := range item.Categories {
		add(ref.ID)
	}
	add(item.CategoryID)
	return out
}

func resolve(ids []string, urls map[string]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if url, ok := urls[id]; ok {
			out = append(out, url)
		}
	}
	return out
}

// imageIDs collects every image id referenced by the objects, without duplicates.
func imageIDs(objects []square.CatalogObject) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(ids []string) {
		for _, id := range ids {
			if _, ok := seen[id]; ok || id == "" {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, obj := range objects {
		if obj.ItemData != nil {
			add(obj.ItemData.ImageIDs)
			for _, v := range obj.ItemData.Variations {
				if v.ItemVariationData != nil {
					add(v.ItemVariationData.ImageIDs)
				}
			}
		}
		if obj.CategoryData != nil {
			add(obj.CategoryData.ImageIDs)
		}
	}
	return out
}
