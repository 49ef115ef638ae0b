package llm

import (
	"net/http"
	"strconv"
)

// rateLimitText replaces the generic 429 reason phrase.
const rateLimitText = "请求过于频繁，请慢一点。OpenAI 对您在 API 上的请求实施速率限制。这些限制适用于每分钟 tokens 数、每分钟请求数（某些情况下是每天请求数）。访问 https://platform.openai.com/account/rate-limits 了解更多信息，或参考 OpenAI 模型的默认速率限制"

// HTTPStatusText returns the reason phrase used in transport error messages.
func HTTPStatusText(status int) string {
	if status == http.StatusTooManyRequests {
		return rateLimitText
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "HTTP " + strconv.Itoa(status)
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
