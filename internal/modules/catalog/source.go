package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Source yields the raw paginated catalog for one shop, fetched to
// completion. Renderers need the full product list before any output is
// produced, so a partial fetch is always an error.
type Source interface {
	FetchAll(ctx context.Context, shop, accessToken string) ([]Page, error)
}

const productsQuery = `
query GetProducts($cursor: String) {
  products(first: 250, after: $cursor) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id title description vendor productType handle status onlineStoreUrl
        variants(first: 100) {
          edges {
            node {
              id title price compareAtPrice sku barcode
              availableForSale inventoryQuantity
              image { url }
              weight { value unit }
            }
          }
        }
        images(first: 10) { edges { node { url } } }
      }
    }
  }
}`

// Client fetches product pages over the upstream GraphQL admin API.
type Client struct {
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a Source with a hard per-request timeout. Pagination may
// take many round-trips; timeout applies to each one, while the caller's
// context bounds the whole fetch.
func NewClient(apiVersion string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphqlResponse struct {
	Data   *Page `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchAll follows the cursor until the upstream reports no further pages.
func (c *Client) FetchAll(ctx context.Context, shop, accessToken string) ([]Page, error) {
	var pages []Page
	cursor := ""
	for {
		page, err := c.fetchPage(ctx, shop, accessToken, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
		if page.Products == nil || !page.Products.PageInfo.HasNextPage {
			break
		}
		cursor = page.Products.PageInfo.EndCursor
	}
	c.logger.Info("catalog fetched", "shop", shop, "pages", len(pages))
	return pages, nil
}

func (c *Client) fetchPage(ctx context.Context, shop, accessToken, cursor string) (*Page, error) {
	vars := map[string]string{}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	body, err := json.Marshal(graphqlRequest{Query: productsQuery, Variables: vars})
	if err != nil {
		return nil, err
	}

	url := c.endpoint(shop)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch for %s: %w", shop, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("catalog fetch for %s: upstream status %d", shop, resp.StatusCode)
	}

	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("catalog fetch for %s: %w", shop, err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("catalog fetch for %s: upstream error: %s", shop, decoded.Errors[0].Message)
	}
	if decoded.Data == nil {
		return nil, &FormatError{Detail: "response missing data"}
	}
	return decoded.Data, nil
}

func (c *Client) endpoint(shop string) string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, c.apiVersion)
}
