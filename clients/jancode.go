package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type Product struct {
	Code     string
	Name     string
	Brand    string
	Maker    string
	ImageURL string
	Details  map[string]string
}

type IBarcodeLookup interface {
	LookupJAN(ctx context.Context, code string) (*Product, error)
}

type janCodeResponse struct {
	Product []struct {
		CodeNumber     string                 `json:"codeNumber"`
		ItemName       string                 `json:"itemName"`
		BrandName      string                 `json:"brandName"`
		MakerName      string                 `json:"makerName"`
		ItemImageURL   string                 `json:"itemImageUrl"`
		ProductDetails map[string]interface{} `json:"ProductDetails"`
	} `json:"product"`
}

// JANCodeClient queries the JANCODE LOOKUP API.
type JANCodeClient struct {
	baseURL string
	appID   string
	http    *http.Client
}

func NewJANCodeClient(baseURL string, appID string, timeout time.Duration) *JANCodeClient {
	return &JANCodeClient{baseURL: baseURL, appID: appID, http: newHTTPClient(timeout)}
}

func (c *JANCodeClient) LookupJAN(ctx context.Context, code string) (*Product, error) {
	if c.appID == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("appId", c.appID)
	params.Set("query", code)
	params.Set("type", "code")
	params.Set("hits", "1")

	var resp janCodeResponse
	if err := getJSON(ctx, c.http, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, errors.Wrap(err, "jancode lookup")
	}
	if len(resp.Product) == 0 || resp.Product[0].ItemName == "" {
		return nil, ErrNotFound
	}

	p := resp.Product[0]
	details := make(map[string]string, len(p.ProductDetails))
	for k, v := range p.ProductDetails {
		if v == nil {
			continue
		}
		details[k] = fmt.Sprint(v)
	}
	return &Product{
		Code:     code,
		Name:     p.ItemName,
		Brand:    p.BrandName,
		Maker:    p.MakerName,
		ImageURL: p.ItemImageURL,
		Details:  details,
	}, nil
}
