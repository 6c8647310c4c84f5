package tutor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for model calls.
var (
	ErrInvalidKey    = errors.New("API key invalid")
	ErrKeyRejected   = errors.New("API key rejected")
	ErrQuota         = errors.New("rate limit exceeded")
	ErrOverloaded    = errors.New("model overloaded")
	ErrModelNotFound = errors.New("model not available")
	ErrNetwork       = errors.New("network error")
	ErrGeneration    = errors.New("generation failed")
	ErrEmptyResponse = errors.New("empty response")
	ErrEmptyHistory  = errors.New("no message to send")
	ErrNoModels      = errors.New("model chain is empty")
)

// userMessages is the Vietnamese text shown for each failure.
var userMessages = []struct {
	err error
	msg string
}{
	{ErrInvalidKey, "API Key không hợp lệ. Vui lòng kiểm tra lại API Key trong phần Cấu hình."},
	{ErrKeyRejected, "API Key bị từ chối (403). Vui lòng kiểm tra API Key hoặc thử tạo key mới tại Google AI Studio."},
	{ErrQuota, "Đã vượt giới hạn API. Vui lòng đợi 1-2 phút rồi thử lại."},
	{ErrOverloaded, "Server AI đang quá tải. Vui lòng thử lại sau ít giây."},
	{ErrModelNotFound, "Model AI không khả dụng. Vui lòng thử lại sau."},
	{ErrNetwork, "Lỗi kết nối mạng. Kiểm tra internet và thử lại."},
	{ErrEmptyResponse, "API trả về kết quả rỗng (Empty Response)."},
	{ErrEmptyHistory, "Vui lòng nhập câu hỏi."},
	{ErrNoModels, "Tất cả các model đều thất bại. Vui lòng thử lại sau."},
}

// UserMessage returns the Vietnamese message for err. Errors outside the
// catalogue are reported as "Lỗi AI: <detail>".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	detail := err.Error()
	if errors.Is(err, ErrGeneration) {
		detail = strings.TrimPrefix(detail, ErrGeneration.Error()+": ")
	}
	if detail == "" {
		detail = "Không xác định"
	}
	return "Lỗi AI: " + detail
}

// classify wraps a raw API error in the sentinel matching its message.
func classify(model string, err error) error {
	msg := errorMessage(err)
	var kind error
	switch {
	case containsAny(msg, "API key", "API_KEY_INVALID", "401"):
		kind = ErrInvalidKey
	case strings.Contains(msg, "403"):
		kind = ErrKeyRejected
	case isRateLimited(msg):
		kind = ErrQuota
	case containsAny(msg, "503", "overloaded", "UNAVAILABLE"):
		kind = ErrOverloaded
	case containsAny(msg, "not found", "404"):
		kind = ErrModelNotFound
	case containsAny(msg, "connection refused", "no such host", "i/o timeout", "network is unreachable", "connection reset"):
		kind = ErrNetwork
	case errors.Is(err, ErrEmptyResponse):
		kind = ErrEmptyResponse
	default:
		kind = ErrGeneration
	}
	return fmt.Errorf("%w: %s: %s", kind, model, msg)
}

// isRetryable reports whether another model may succeed where this one hit
// a rate limit or an overload.
func isRetryable(msg string) bool {
	return isRateLimited(msg) || containsAny(msg, "503", "overloaded", "UNAVAILABLE")
}

// isRateLimited matches quota errors. A bare "rate" would also match
// "generate", so only the phrase forms are accepted.
func isRateLimited(msg string) bool {
	return containsAny(msg, "429", "quota", "RESOURCE_EXHAUSTED", "Too Many Requests",
		"rate limit", "Rate limit", "rateLimit")
}

// isKeyFailure reports whether the key itself was refused, in which case no
// other model will accept it either.
func isKeyFailure(msg string) bool {
	return containsAny(msg, "403", "API key not valid", "API_KEY_INVALID", "401")
}

// errorMessage returns the text of err, unwrapping JSON bodies of the form
// {"error":{"message":"..."}}.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	trimmed := strings.TrimSpace(msg)
	if !strings.HasPrefix(trimmed, "{") {
		return msg
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(trimmed), &body) != nil || body.Error.Message == "" {
		return msg
	}
	return body.Error.Message
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
