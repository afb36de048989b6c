package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/milldata/milltrack/internal/domain"
	"go.uber.org/zap"
)

// RecognizeItem is one detected region returned by the recognizer. Lvdt is
// filled in by the caller from SelectLVDT(Text), the upstream service only
// returns raw text.
type RecognizeItem struct {
	Image    string `json:"image"`
	RoiIndex int    `json:"roi_index"`
	Text     string `json:"text"`
	Lvdt     *int64 `json:"lvdt,omitempty"`
}

// RecognizeResult is the recognizer's response for one uploaded image.
type RecognizeResult struct {
	JobID       string          `json:"job_id"`
	SourceImage string          `json:"source_image"`
	Count       int             `json:"count"`
	Items       []RecognizeItem `json:"items"`
}

// Client talks to the python slab recognizer over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates an OCR client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{baseURL: baseURL, timeout: timeout}
}

// Recognize uploads an image to the recognizer's /process endpoint and
// returns its detections. Every transport or HTTP level failure comes back
// as ErrUpstream, a successful call with zero detections does not.
func (c *Client) Recognize(ctx context.Context, filename, contentType string, data []byte) (*RecognizeResult, error) {
	var result RecognizeResult
	var code int

	err := gout.POST(c.baseURL + "/process").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetForm(gout.H{
			"file": gout.FormType{
				FileName:    filename,
				ContentType: contentType,
				File:        gout.FormMem(data),
			},
		}).
		Code(&code).
		BindJSON(&result).
		Do()
	if err != nil {
		zap.L().Error("recognizer call failed", zap.String("filename", filename), zap.Error(err))
		return nil, fmt.Errorf("recognize %s: %w", filename, domain.ErrUpstream)
	}
	if code != 200 {
		zap.L().Error("recognizer returned non-200", zap.String("filename", filename), zap.Int("code", code))
		return nil, fmt.Errorf("recognize %s: status %d: %w", filename, code, domain.ErrUpstream)
	}

	for i := range result.Items {
		result.Items[i].Lvdt = SelectLVDT(result.Items[i].Text)
	}
	return &result, nil
}
