package es

import (
	"context"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/sirupsen/logrus"
)

type ClientConfig struct {
	URL      string
	User     string
	Password string
}

func NewClient(ctx context.Context, cfg ClientConfig) (*elasticsearch.Client, error) {
	l := logrus.WithField("es_url", cfg.URL)
	l.Info("connecting to elasticsearch")

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: info: %s: %s", res.Status(), body)
	}

	l.Info("connected to elasticsearch")
	return client, nil
}
