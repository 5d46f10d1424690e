package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/fundwit/go-commons/types"
)

// ELASTICSEARCH_URL
var ActiveESClient *elasticsearch.Client

var (
	IndexFunc     = Index
	DeleteDocFunc = DeleteDoc
	SearchFunc    = Search
)

func Bootstrap() {
	client, err := elasticsearch.NewDefaultClient()
	if err != nil {
		panic(err)
	}
	ActiveESClient = client
}

func Index(index string, id types.ID, doc interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: id.String(),
		Body:       bytes.NewReader(buf.Bytes()),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), ActiveESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.New("index document " + id.String() + " into " + index + ": " + res.Status())
	}
	return nil
}

func DeleteDoc(index string, id types.ID) error {
	req := esapi.DeleteRequest{Index: index, DocumentID: id.String(), Refresh: "true"}
	res, err := req.Do(context.Background(), ActiveESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return errors.New("delete document " + id.String() + " from " + index + ": " + res.Status())
	}
	return nil
}

// Search runs the given query body and decodes each hit source into the
// slice appended by the given collector.
func Search(index string, query interface{}, collect func(source json.RawMessage) error) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return err
	}

	res, err := ActiveESClient.Search(
		ActiveESClient.Search.WithContext(context.Background()),
		ActiveESClient.Search.WithIndex(index),
		ActiveESClient.Search.WithBody(&buf),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := ioutil.ReadAll(res.Body)
		return errors.New("search " + index + ": " + res.Status() + " " + string(body))
	}

	result := struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return err
	}
	for _, hit := range result.Hits.Hits {
		if err := collect(hit.Source); err != nil {
			return err
		}
	}
	return nil
}
