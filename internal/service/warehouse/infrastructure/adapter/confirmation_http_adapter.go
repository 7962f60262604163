package adapter

import (
	"context"

	"github.com/pkg/errors"

	"warehouse/internal/pkg/httpclient"
	"warehouse/internal/service/warehouse/domain/port"
)

// ConfirmationHTTPAdapter 实现了 port.ConfirmationService 接口。
// 确认流程调用是同步的且不做重试：流程引擎侧可能已经启动了实例，
// 盲目重试会产生重复流程。
type ConfirmationHTTPAdapter struct {
	client *httpclient.Client
	url    string
}

// NewConfirmationHTTPAdapter 创建一个新的确认流程适配器。
func NewConfirmationHTTPAdapter(client *httpclient.Client, url string) *ConfirmationHTTPAdapter {
	return &ConfirmationHTTPAdapter{client: client, url: url}
}

// ConfirmOrder 发起确认流程，返回流程实例的业务键。
func (a *ConfirmationHTTPAdapter) ConfirmOrder(ctx context.Context, req port.ConfirmOrderRequest) (string, error) {
	var businessKey string
	if err := a.client.PostJSON(ctx, a.url, req, &businessKey); err != nil {
		return "", errors.Wrap(err, "confirmation service")
	}
	return businessKey, nil
}
