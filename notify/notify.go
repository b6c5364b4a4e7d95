// notify/notify.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Submission 提交成功后的通知内容
type Submission struct {
	ActionLabel string `json:"action"` // "requisition" / "borrow"
	UserName    string `json:"user"`
	TotalQty    int    `json:"totalQty"`
	Date        string `json:"date"`
	ReasonLabel string `json:"reason"`
	GroupID     string `json:"groupId"`
}

type Notifier interface {
	SubmissionCreated(s Submission)
}

// WebhookNotifier 往配置的 URL POST 一条 JSON。
// 纯尽力而为：失败只打日志，绝不影响已提交的事务。
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *WebhookNotifier) SubmissionCreated(s Submission) {
	if n.URL == "" {
		log.Printf("[notify] %s by %s: total %d (%s)", s.ActionLabel, s.UserName, s.TotalQty, s.ReasonLabel)
		return
	}

	body, _ := json.Marshal(s)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		log.Printf("[notify] build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		log.Printf("[notify] send failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("[notify] webhook answered %d", resp.StatusCode)
	}
}
