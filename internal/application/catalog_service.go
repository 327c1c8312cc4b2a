package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	repo "github.com/agriassist/agriassist-api/internal/domain/repository"
	"github.com/agriassist/agriassist-api/pkg/helpers"
)

const defaultSearchSize = 20

// productMapping analyzes the searchable fields and keeps category exact.
const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "category":    {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "price":       {"type": "scaled_float", "scaling_factor": 100},
      "image":       {"type": "keyword", "index": false},
      "createdAt":   {"type": "date"},
      "updatedAt":   {"type": "date"}
    }
  }
}`

type CatalogService struct {
	Repo    repo.ProductRepository
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewCatalogService(r repo.ProductRepository, es *elasticsearch.Client, index string, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Repo: r, ES: es, ESIndex: index, Logger: logger}
}

func (s *CatalogService) List(ctx context.Context, category string) ([]entity.Product, error) {
	return s.Repo.List(ctx, category)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// Search queries the product index and falls back to the database when the
// index is not configured or unavailable.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]entity.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.Product{}, nil
	}
	if size <= 0 || size > 50 {
		size = defaultSearchSize
	}
	if s.ES != nil && s.ESIndex != "" {
		out, err := s.searchIndex(ctx, q, size)
		if err == nil {
			return out, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("q", q).Warn("es search failed, using database")
		}
	}
	return s.Repo.Search(ctx, q, size)
}

func (s *CatalogService) searchIndex(ctx context.Context, q string, size int) ([]entity.Product, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// Index writes one product document; a nil client is a no-op.
func (s *CatalogService) Index(ctx context.Context, p entity.Product) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", p.ID, res.Status())
	}
	return nil
}

// EnsureIndex creates the product index with its mapping on first use.
func (s *CatalogService) EnsureIndex(ctx context.Context) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	created, err := helpers.EnsureIndex(ctx, s.ES, s.ESIndex, productMapping)
	if err != nil {
		return err
	}
	if created && s.Logger != nil {
		s.Logger.WithField("index", s.ESIndex).Info("es index created")
	}
	return nil
}

// Seed upserts every product and indexes it. Index failures are logged and skipped.
func (s *CatalogService) Seed(ctx context.Context, products []entity.Product) (int, error) {
	n := 0
	for i := range products {
		p := products[i]
		if err := s.Repo.Upsert(ctx, &p); err != nil {
			return n, fmt.Errorf("upsert %s: %w", p.ID, err)
		}
		if err := s.Index(ctx, p); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		n++
	}
	return n, nil
}
