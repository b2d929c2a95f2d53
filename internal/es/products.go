package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/inventory/internal/models"
)

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "category_id": {"type": "long"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "price":       {"type": "double"},
      "stock":       {"type": "integer"}
    }
  }
}`

// ProductIndex keeps products searchable in one Elasticsearch index.
type ProductIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewProductIndex(client *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{Client: client, Index: index}
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("es: %s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}

func (p *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := p.Client.Indices.Exists([]string{p.Index}, p.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = p.Client.Indices.Create(p.Index,
		p.Client.Indices.Create.WithContext(ctx),
		p.Client.Indices.Create.WithBody(bytes.NewReader([]byte(productMapping))),
	)
	if err != nil {
		return fmt.Errorf("es: create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (p *ProductIndex) IndexProduct(ctx context.Context, prod *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(prod); err != nil {
		return fmt.Errorf("es: encode product: %w", err)
	}

	res, err := p.Client.Index(p.Index, &buf,
		p.Client.Index.WithContext(ctx),
		p.Client.Index.WithDocumentID(strconv.FormatUint(uint64(prod.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es: index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res)
	}
	return nil
}

func (p *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := p.Client.Delete(p.Index, strconv.FormatUint(uint64(id), 10),
		p.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete product", res)
	}
	return nil
}

func (p *ProductIndex) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := p.Client.Search(
		p.Client.Search.WithContext(ctx),
		p.Client.Search.WithIndex(p.Index),
		p.Client.Search.WithBody(&buf),
		p.Client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode search: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}
