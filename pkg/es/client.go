// Package es 提供了基于 Elasticsearch dense_vector 的员工向量索引。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bench-match-go/internal/config"
	"bench-match-go/internal/model"
	"bench-match-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// NewClient 根据配置创建 Elasticsearch 客户端。
func NewClient(esCfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: strings.Split(esCfg.Addresses, ","),
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	return elasticsearch.NewClient(cfg)
}

// Index 是以 employee_id 为文档 _id 的向量索引，写入即覆盖。
type Index struct {
	client       *elasticsearch.Client
	name         string
	dims         int
	modelVersion string
}

// NewIndex 创建一个 Index。modelVersion 会写入每个文档，便于排查不同模型生成的向量。
func NewIndex(client *elasticsearch.Client, name string, dims int, modelVersion string) *Index {
	return &Index{client: client, name: name, dims: dims, modelVersion: modelVersion}
}

// Name 返回索引名。
func (i *Index) Name() string {
	return i.name
}

// EnsureIndex 检查索引是否存在，如果不存在则按余弦相似度创建。
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.name}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("检查索引是否存在时出错: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", i.name)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = i.client.Indices.Create(
		i.name,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(strings.NewReader(indexMapping(i.dims))),
	)
	if err != nil {
		return fmt.Errorf("创建索引 '%s' 失败: %w", i.name, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", i.name, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功, dims=%d", i.name, i.dims)
	return nil
}

func indexMapping(dims int) string {
	return fmt.Sprintf(`{
		"mappings": {
			"properties": {
				"employee_id": { "type": "keyword" },
				"role": { "type": "keyword" },
				"text_content": { "type": "text" },
				"vector": {
					"type": "dense_vector",
					"dims": %d,
					"index": true,
					"similarity": "cosine"
				},
				"model_version": { "type": "keyword" }
			}
		}
	}`, dims)
}

// Upsert 以 employee_id 为文档 ID 写入，已存在的文档整体被替换。
func (i *Index) Upsert(ctx context.Context, entry model.CorpusEntry) error {
	doc := model.CorpusDocument{
		EmployeeID:   entry.EmployeeID,
		Role:         entry.Metadata.Role,
		TextContent:  entry.Text,
		Vector:       entry.Vector,
		ModelVersion: i.modelVersion,
	}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      i.name,
		DocumentID: entry.EmployeeID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "wait_for",
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("index document %s: %w", entry.EmployeeID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index document %s: elasticsearch returned %s", entry.EmployeeID, res.Status())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string               `json:"_id"`
			Score  float64              `json:"_score"`
			Source model.CorpusMetadata `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Query 执行 kNN 检索，按余弦距离升序返回最多 k 条结果。
func (i *Index) Query(ctx context.Context, vector []float32, k int) ([]model.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	numCandidates := k * 2
	if numCandidates < 100 {
		numCandidates = 100
	}
	esQuery := map[string]interface{}{
		"knn": map[string]interface{}{
			"field":          "vector",
			"query_vector":   vector,
			"k":              k,
			"num_candidates": numCandidates,
		},
		"_source": []string{"employee_id", "role"},
		"size":    k,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.name),
		i.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("elasticsearch returned an error: %s, body: %s", res.Status(), string(body))
	}

	var esResponse searchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	hits := make([]model.VectorHit, 0, len(esResponse.Hits.Hits))
	for _, h := range esResponse.Hits.Hits {
		meta := h.Source
		if meta.EmployeeID == "" {
			meta.EmployeeID = h.ID
		}
		hits = append(hits, model.VectorHit{
			EmployeeID: h.ID,
			Metadata:   meta,
			Distance:   scoreToDistance(h.Score),
		})
	}
	return hits, nil
}

// scoreToDistance 将 ES 的余弦得分 (1+cos)/2 换算为余弦距离 1-cos。
func scoreToDistance(score float64) float64 {
	d := 2 - 2*score
	if d < 0 {
		return 0
	}
	if d > 2 {
		return 2
	}
	return d
}

// Count 返回索引中的文档数。
func (i *Index) Count(ctx context.Context) (int64, error) {
	res, err := i.client.Count(
		i.client.Count.WithContext(ctx),
		i.client.Count.WithIndex(i.name),
	)
	if err != nil {
		return 0, fmt.Errorf("elasticsearch count failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("elasticsearch count returned %s", res.Status())
	}

	var body struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return body.Count, nil
}
