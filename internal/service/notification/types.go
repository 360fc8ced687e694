package notification

import "fmt"

// Format 消息格式, 同时决定企业微信的 msgtype
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown notification format %q", s)
	}
}

type wechatContent struct {
	Content string `json:"content"`
}

// wechatMessage 企业微信群机器人消息体
type wechatMessage struct {
	MsgType  string         `json:"msgtype"`
	Text     *wechatContent `json:"text,omitempty"`
	Markdown *wechatContent `json:"markdown,omitempty"`
}

type wechatResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}
