// internal/common/database/elasticsearch.go
package database

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rotisserie/eris"

	"github.com/akkash/bizsearch-new-sub002/internal/common/config"
)

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}

	esCfg := elasticsearch.Config{Addresses: addresses}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create elasticsearch client")
	}
	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "elasticsearch ping failed")
	}
	defer res.Body.Close()

	if res.IsError() {
		return eris.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}
