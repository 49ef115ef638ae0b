package azure

// validationRequest is the minimal Responses call used to probe a
// deployment.
type validationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

const (
	// defaultValidationModel is sent when the URL names no deployment.
	defaultValidationModel = "gpt-5-nano"

	validationInput = "Test connectivity. You ONLY need to reply 'OK'."
)
