package translate

import (
	"errors"

	"github.com/tidwall/sjson"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/llm/provider"
)

var (
	// ErrCancelled is returned once the caller cancels a translation.
	ErrCancelled = errors.New("translation cancelled")

	// ErrStreamClosed is returned when a chunk arrives after the stream
	// completed or failed.
	ErrStreamClosed = errors.New("stream already closed")
)

// invalidTokenMarker in raw stream text means the upstream rejected the key.
const invalidTokenMarker = "Invalid token"

func invalidTokenError(link string) *llm.ServiceError {
	return llm.NewServiceError(llm.ErrorSecretKey, "配置错误 - 请确保您在插件配置中填入了正确的 API Keys").
		WithAddition("请在插件配置中填写正确的 API Keys").
		WithLink(link)
}

// TransportError maps a non-2xx response. The provider's own mapping wins;
// otherwise 4xx is a param error and anything else an api error.
func TransportError(p provider.Provider, status int, body []byte) *llm.ServiceError {
	if se := p.ParseError(status, body); se != nil {
		if se.TroubleshootingLink == "" {
			se.TroubleshootingLink = p.TroubleshootingLink()
		}
		return se
	}

	kind := llm.ErrorAPI
	if status >= 400 && status < 500 {
		kind = llm.ErrorParam
	}

	addition, err := sjson.Set("", "statusCode", status)
	if err == nil {
		addition, err = sjson.Set(addition, "body", string(body))
	}
	if err != nil {
		addition = string(body)
	}

	return llm.NewServiceError(kind, "接口响应错误 - "+llm.HTTPStatusText(status)).
		WithAddition(addition).
		WithLink(p.TroubleshootingLink())
}

func networkError(link string, err error) *llm.ServiceError {
	return llm.NewServiceError(llm.ErrorNetwork, "网络错误 - "+err.Error()).
		WithLink(link).
		WithCause(err)
}

// embeddedError maps a stream message carrying a top-level error.
func embeddedError(p provider.Provider, payload []byte) *llm.ServiceError {
	if se := p.ParseError(0, payload); se != nil {
		if se.TroubleshootingLink == "" {
			se.TroubleshootingLink = p.TroubleshootingLink()
		}
		return se
	}
	return llm.NewServiceError(llm.ErrorAPI, "API request failed").
		WithAddition(string(payload)).
		WithLink(p.TroubleshootingLink())
}
