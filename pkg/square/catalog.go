package square

import (
	"context"
	"strings"

	sq "github.com/square/square-go-sdk"
	sqcatalog "github.com/square/square-go-sdk/catalog"
)

const (
	catalogTypeCategory = "CATEGORY"
	catalogTypeImage    = "IMAGE"
)

// CatalogSearchParams filters catalog item search. Limit is applied locally.
type CatalogSearchParams struct {
	Text        string
	CategoryIDs []string
	Limit       int
}

// SearchCatalogItems returns items matching the text filter and categories.
func (c *Client) SearchCatalogItems(ctx context.Context, params CatalogSearchParams) ([]CatalogObject, error) {
	req := &sq.SearchCatalogItemsRequest{
		TextFilter:  ptrString(strings.TrimSpace(params.Text)),
		CategoryIDs: params.CategoryIDs,
	}
	resp, err := call(ctx, c, "search_catalog_items", map[string]any{
		"text":         params.Text,
		"category_ids": params.CategoryIDs,
	}, func(ctx context.Context) (*sq.SearchCatalogItemsResponse, error) {
		return c.sdk.Catalog.SearchItems(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Items []CatalogObject `json:"items"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, decodeFailure("search_catalog_items", err)
	}
	if params.Limit > 0 && len(out.Items) > params.Limit {
		out.Items = out.Items[:params.Limit]
	}
	return out.Items, nil
}

// GetCatalogObject fetches one object, optionally with its related objects (images,
// categories).
func (c *Client) GetCatalogObject(ctx context.Context, objectID string, includeRelated bool) (*CatalogObject, []CatalogObject, error) {
	req := &sqcatalog.GetObjectRequest{
		ObjectID:              objectID,
		IncludeRelatedObjects: boolPtr(includeRelated),
	}
	resp, err := call(ctx, c, "get_catalog_object", map[string]any{"object_id": objectID}, func(ctx context.Context) (*sq.GetCatalogObjectResponse, error) {
		return c.sdk.Catalog.Object.Get(ctx, req)
	})
	if err != nil {
		return nil, nil, err
	}
	var out struct {
		Object         *CatalogObject  `json:"object"`
		RelatedObjects []CatalogObject `json:"related_objects"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, nil, decodeFailure("get_catalog_object", err)
	}
	if out.Object == nil {
		return nil, nil, mapSquareError(emptyResponse("get_catalog_object", "object"))
	}
	return out.Object, out.RelatedObjects, nil
}

// ListCategories returns every category in the catalog.
func (c *Client) ListCategories(ctx context.Context) ([]CatalogObject, error) {
	req := &sq.ListCatalogRequest{Types: ptrString(catalogTypeCategory)}
	return call(ctx, c, "list_categories", nil, func(ctx context.Context) ([]CatalogObject, error) {
		page, err := c.sdk.Catalog.List(ctx, req)
		if err != nil {
			return nil, err
		}
		var objects []CatalogObject
		iter := page.Iterator()
		for iter.Next(ctx) {
			var obj CatalogObject
			if err := decode(iter.Current(), &obj); err != nil {
				return nil, decodeFailure("list_categories", err)
			}
			objects = append(objects, obj)
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return objects, nil
	})
}

// BatchGetCatalogObjects fetches objects by id in one round trip.
func (c *Client) BatchGetCatalogObjects(ctx context.Context, objectIDs []string) ([]CatalogObject, error) {
	if len(objectIDs) == 0 {
		return nil, nil
	}
	req := &sq.BatchGetCatalogObjectsRequest{ObjectIDs: objectIDs}
	resp, err := call(ctx, c, "batch_get_catalog_objects", map[string]any{"count": len(objectIDs)}, func(ctx context.Context) (*sq.BatchGetCatalogObjectsResponse, error) {
		return c.sdk.Catalog.BatchGet(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Objects []CatalogObject `json:"objects"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, decodeFailure("batch_get_catalog_objects", err)
	}
	return out.Objects, nil
}

// ImageURLs maps image object ids to their urls.
func ImageURLs(objects []CatalogObject) map[string]string {
	urls := make(map[string]string, len(objects))
	for _, obj := range objects {
		if obj.Type == catalogTypeImage && obj.ImageData != nil && obj.ImageData.URL != "" {
			urls[obj.ID] = obj.ImageData.URL
		}
	}
	return urls
}
