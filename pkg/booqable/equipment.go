package booqable

import (
	"context"
	"net/url"
)

// ProductListing is a page-merged product fetch together with the sideloaded
// stock items the products reference.
type ProductListing struct {
	Products []Resource
	Included []Resource
}

// ListProducts fetches every product with its stock items sideloaded via the
// JSON:API included table.
func (c *Client) ListProducts(ctx context.Context) (ProductListing, error) {
	query := url.Values{}
	query.Set("include", "stock_items")

	products, included, err := c.listAll(ctx, "/products", query)
	if err != nil {
		return ProductListing{}, err
	}
	return ProductListing{Products: products, Included: included}, nil
}
