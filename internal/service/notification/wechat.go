package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrEmptyWebhook = errors.New("webhook url is empty")

// WechatNotifier 企业微信群机器人
type WechatNotifier struct {
	webhookURL string
	format     Format
	client     *http.Client
}

type Option func(n *WechatNotifier)

func WithFormat(format Format) Option {
	return func(n *WechatNotifier) {
		n.format = format
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(n *WechatNotifier) {
		if timeout > 0 {
			n.client.Timeout = timeout
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(n *WechatNotifier) {
		n.client = client
	}
}

func NewWechatNotifier(webhookURL string, opts ...Option) *WechatNotifier {
	n := &WechatNotifier{
		webhookURL: webhookURL,
		format:     FormatText,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *WechatNotifier) Send(ctx context.Context, text string) error {
	if n.webhookURL == "" {
		return ErrEmptyWebhook
	}

	msg := wechatMessage{MsgType: string(n.format)}
	if n.format == FormatMarkdown {
		msg.Markdown = &wechatContent{Content: text}
	} else {
		msg.MsgType = string(FormatText)
		msg.Text = &wechatContent{Content: text}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal wechat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post wechat webhook: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read wechat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wechat webhook status %d: %s", resp.StatusCode, string(body))
	}

	// 企业微信 http 200 时通过 errcode 表示失败
	var res wechatResponse
	if len(body) > 0 && json.Unmarshal(body, &res) == nil && res.ErrCode != 0 {
		return fmt.Errorf("wechat webhook errcode %d: %s", res.ErrCode, res.ErrMsg)
	}
	return nil
}
