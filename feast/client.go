// Package feast 从 Feast 在线特征服务读取用户向量，实现 core.VectorStore。
package feast

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
)

// RowFetcher 是在线特征读取的最小抽象，便于在测试中替换。
// 返回的行与 entities 一一对应，key 为特征引用（"table:feature"）。
type RowFetcher interface {
	FetchRows(ctx context.Context, project string, features []string, entities []feastsdk.Row) ([]feastsdk.Row, error)
}

// ClientConfig 是 Feast gRPC 客户端配置。
type ClientConfig struct {
	Host string
	// Port 默认 6565
	Port int
	// Token 非空时使用静态 Token 认证
	Token string
	// TLS 仅在 Token 认证时生效
	TLS bool
}

// GrpcClient 基于官方 Feast Go SDK。
type GrpcClient struct {
	client   *feastsdk.GrpcClient
	endpoint string
}

// NewGrpcClient 创建 Feast gRPC 客户端。
func NewGrpcClient(cfg ClientConfig) (*GrpcClient, error) {
	port := cfg.Port
	if port == 0 {
		port = 6565
	}

	var (
		client *feastsdk.GrpcClient
		err    error
	)
	if cfg.Token != "" {
		client, err = feastsdk.NewSecureGrpcClient(cfg.Host, port, feastsdk.SecurityConfig{
			EnableTLS:  cfg.TLS,
			Credential: feastsdk.NewStaticCredential(cfg.Token),
		})
	} else {
		client, err = feastsdk.NewGrpcClient(cfg.Host, port)
	}
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}

	return &GrpcClient{client: client, endpoint: fmt.Sprintf("%s:%d", cfg.Host, port)}, nil
}

// Endpoint 返回 host:port。
func (c *GrpcClient) Endpoint() string { return c.endpoint }

func (c *GrpcClient) FetchRows(ctx context.Context, project string, features []string, entities []feastsdk.Row) ([]feastsdk.Row, error) {
	resp, err := c.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: features,
		Entities: entities,
		Project:  project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}
	rows := resp.Rows()
	if len(rows) != len(entities) {
		return nil, fmt.Errorf("feast response row count mismatch: expected %d, got %d", len(entities), len(rows))
	}
	return rows, nil
}

// Close 关闭底层 gRPC 连接。
func (c *GrpcClient) Close() error { return c.client.Close() }

var _ RowFetcher = (*GrpcClient)(nil)
