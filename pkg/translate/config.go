package translate

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/llm/provider"
	"github.com/papercomputeco/lingo/pkg/llm/provider/azure"
)

const (
	// CustomModel is the model value that defers to Config.CustomModel.
	CustomModel = "custom"

	// DefaultTimeout bounds a whole translate call.
	DefaultTimeout = 120 * time.Second

	// DefaultTemperature is used when none is configured.
	DefaultTemperature = 0.2

	apiURLLink = "https://github.com/openai-translator/bob-plugin-openai-translator/blob/main/docs/configuration_manual_CN.md#api-url"
)

var azureURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/openai/deployments/[^/]+/responses\?api-version=preview$`),
	regexp.MustCompile(`/openai/v1/responses\?api-version=preview$`),
}

var hasScheme = regexp.MustCompile(`(?i)^[a-z]+://`)

// Config is everything a Translator needs to reach one provider.
type Config struct {
	Provider    string
	APIURL      string
	APIKeys     string
	Model       string
	CustomModel string
	Temperature float64
	Stream      bool

	// SystemPrompt and UserPrompt are optional templates.
	SystemPrompt string
	UserPrompt   string

	// ExtraBody is a JSON object merged into every request body.
	ExtraBody string

	Timeout time.Duration
}

// ResolvedModel returns the model name sent upstream.
func (c Config) ResolvedModel() string {
	if c.Model == CustomModel {
		return c.CustomModel
	}
	return c.Model
}

// ValidateConfig checks c before any network call.
func ValidateConfig(c Config) error {
	if (c.Provider == provider.Azure || c.Provider == provider.Compatible) && c.APIURL == "" {
		return llm.NewServiceError(llm.ErrorParam, "配置错误 - 请填写 API URL").
			WithAddition("请在插件配置中填写有效的 API URL").
			WithLink(apiURLLink)
	}

	if c.Provider == provider.Azure {
		valid := false
		for _, pattern := range azureURLPatterns {
			if pattern.MatchString(c.APIURL) {
				valid = true
				break
			}
		}
		if !valid {
			return llm.NewServiceError(llm.ErrorParam, "配置错误 - API URL 格式不正确").
				WithAddition("Azure OpenAI 的 API URL 格式应为：https://RESOURCE_NAME.openai.azure.com/openai/deployments/DEPLOYMENT_NAME/responses?api-version=preview 或 https://RESOURCE_NAME.openai.azure.com/openai/v1/responses?api-version=preview").
				WithLink(azure.TroubleshootingLink)
		}
	}

	if strings.TrimSpace(c.APIKeys) == "" {
		return llm.NewServiceError(llm.ErrorSecretKey, "配置错误 - 请确保您在插件配置中填入了正确的 API Keys").
			WithAddition("请在插件配置中填写 API Keys")
	}

	if c.Model == CustomModel && c.CustomModel == "" {
		return llm.NewServiceError(llm.ErrorParam, "配置错误 - 请确保你在插件配置中填入了正确的自定义模型名称").
			WithAddition("请在插件配置中填写自定义模型名称")
	}

	return nil
}

// EnsureHTTPSAndNoTrailingSlash adds https:// to a URL without a scheme and
// removes one trailing slash.
func EnsureHTTPSAndNoTrailingSlash(url string) string {
	if !hasScheme.MatchString(url) {
		url = "https://" + url
	}
	return strings.TrimSuffix(url, "/")
}

// PickAPIKey returns a random key from a comma-separated list. A trailing
// comma is ignored.
func PickAPIKey(keys string) string {
	keys = strings.TrimSuffix(keys, ",")
	candidates := strings.Split(keys, ",")
	return strings.TrimSpace(candidates[rand.IntN(len(candidates))])
}
