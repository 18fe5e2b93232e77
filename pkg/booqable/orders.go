package booqable

import (
	"context"
	"net/url"
)

// ListOrders fetches every rental order. The customer relationship is
// declared on each resource; callers resolve it against ListCustomers.
func (c *Client) ListOrders(ctx context.Context) ([]Resource, error) {
	orders, _, err := c.listAll(ctx, "/orders", nil)
	return orders, err
}

// ListCustomers fetches every customer record.
func (c *Client) ListCustomers(ctx context.Context) ([]Resource, error) {
	customers, _, err := c.listAll(ctx, "/customers", nil)
	return customers, err
}

// FindCustomerByEmail looks a customer up by exact email match. A miss
// returns ok=false, not an error.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (Resource, bool, error) {
	query := url.Values{}
	query.Set("filter[email]", email)

	doc, err := c.get(ctx, "/customers", query)
	if err != nil {
		return Resource{}, false, err
	}
	matches := doc.resources()
	if len(matches) == 0 {
		return Resource{}, false, nil
	}
	return matches[0], true, nil
}

// CreateCustomer registers a new customer in the booking system.
func (c *Client) CreateCustomer(ctx context.Context, name, email string) (Resource, error) {
	payload := map[string]any{
		"data": map[string]any{
			"type": "customers",
			"attributes": map[string]any{
				"name":  name,
				"email": email,
			},
		},
	}

	doc, err := c.post(ctx, "/customers", payload)
	if err != nil {
		return Resource{}, err
	}
	created := doc.resources()
	if len(created) == 0 {
		return Resource{}, &APIError{Status: 200, Body: "create customer: empty response"}
	}
	return created[0], nil
}
