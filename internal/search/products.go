package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_backend/internal/models"
)

const (
	maxHits   = 1000
	bulkBatch = 500
)

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "name":        {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "description": {"type": "text"},
      "price":       {"type": "scaled_float", "scaling_factor": 100}
    }
  }
}`

// ProductIndex mirrors the catalog into an Elasticsearch index for keyword
// and price-range search.
type ProductIndex struct {
	ES    *elasticsearch.Client
	Index string
}

type productDoc struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func toDoc(p models.Product) productDoc {
	return productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
	}
}

func (d productDoc) product() models.Product {
	return models.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       decimal.NewFromFloat(d.Price).Round(2),
	}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.ES.Indices.Exists([]string{x.Index}, x.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.ES.Indices.Create(
		x.Index,
		x.ES.Indices.Create.WithContext(ctx),
		x.ES.Indices.Create.WithBody(bytes.NewReader([]byte(productMapping))),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}
	return checkResponse(res, "create index")
}

func (x *ProductIndex) Upsert(ctx context.Context, p models.Product) error {
	body, err := json.Marshal(toDoc(p))
	if err != nil {
		return err
	}

	res, err := x.ES.Index(
		x.Index,
		bytes.NewReader(body),
		x.ES.Index.WithContext(ctx),
		x.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index product %d: %w", p.ID, err)
	}
	return checkResponse(res, "index product")
}

// Delete removes a product document; a missing document is not an error.
func (x *ProductIndex) Delete(ctx context.Context, id uint) error {
	res, err := x.ES.Delete(
		x.Index,
		strconv.FormatUint(uint64(id), 10),
		x.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: delete product %d: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete product")
}

// Reindex writes every given product into the index in bulk batches,
// overwriting documents with the same id.
func (x *ProductIndex) Reindex(ctx context.Context, products []models.Product) error {
	for start := 0; start < len(products); start += bulkBatch {
		end := min(start+bulkBatch, len(products))
		if err := x.bulk(ctx, products[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (x *ProductIndex) bulk(ctx context.Context, products []models.Product) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		meta := map[string]any{"index": map[string]any{"_id": strconv.FormatUint(uint64(p.ID), 10)}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(toDoc(p)); err != nil {
			return err
		}
	}

	res, err := x.ES.Bulk(&buf, x.ES.Bulk.WithIndex(x.Index), x.ES.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: bulk: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch: bulk: %s: %s", res.Status(), body)
	}

	var r struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string          `json:"_id"`
			Status int             `json:"status"`
			Error  json.RawMessage `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("elasticsearch: decode bulk: %w", err)
	}
	if !r.Errors {
		return nil
	}
	var failed []string
	for _, item := range r.Items {
		for _, op := range item {
			if op.Status >= 300 {
				failed = append(failed, op.ID)
			}
		}
	}
	return fmt.Errorf("elasticsearch: bulk: %d documents failed: %s", len(failed), strings.Join(failed, ","))
}

func (x *ProductIndex) Search(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(f)); err != nil {
		return nil, fmt.Errorf("elasticsearch: encode query: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: search: %s: %s", res.Status(), body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("elasticsearch: decode search: %w", err)
	}

	prods := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		prods = append(prods, hit.Source.product())
	}
	return prods, nil
}

// buildQuery matches the store's keyword semantics: case-insensitive
// substring of the name only.
func buildQuery(f models.ProductFilter) map[string]any {
	var must []any
	if f.Keyword != "" {
		must = append(must, map[string]any{
			"wildcard": map[string]any{
				"name.keyword": map[string]any{
					"value":            "*" + wildcardEscaper.Replace(f.Keyword) + "*",
					"case_insensitive": true,
				},
			},
		})
	}
	if f.Name != "" {
		must = append(must, map[string]any{
			"term": map[string]any{"name.keyword": f.Name},
		})
	}

	price := map[string]any{}
	if f.MinPrice != nil {
		price["gte"] = f.MinPrice.InexactFloat64()
	}
	if f.MaxPrice != nil {
		price["lte"] = f.MaxPrice.InexactFloat64()
	}
	if f.Above != nil {
		price["gt"] = f.Above.InexactFloat64()
	}

	var filter []any
	if len(price) > 0 {
		filter = append(filter, map[string]any{"range": map[string]any{"price": price}})
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	} else {
		boolQuery["must"] = []any{map[string]any{"match_all": map[string]any{}}}
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"sort":  []any{map[string]any{"id": "asc"}},
		"size":  maxHits,
	}
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch: %s: %s: %s", op, res.Status(), body)
	}
	return nil
}
