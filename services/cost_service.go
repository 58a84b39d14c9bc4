// services/cost_service.go
package services

type costService struct{}

func NewCostService() CostService {
	return &costService{}
}

// Cost per 1M tokens
var costPerToken = map[string]struct{ input, output float64 }{
	"gpt-4o-mini":              {input: 0.15, output: 0.60},
	"gpt-4o":                   {input: 2.50, output: 10.00},
	"gemini-pro":               {input: 0.50, output: 1.50},
	"claude-3-haiku-20240307":  {input: 0.25, output: 1.25},
	"claude-sonnet-4-20250514": {input: 3.00, output: 15.00},
	"grok-beta":                {input: 5.00, output: 15.00},
	"mistral-small-latest":     {input: 0.20, output: 0.60},
	"sonar":                    {input: 1.00, output: 1.00},
}

func (s *costService) CalculateCost(provider string, model string, inputTokens int, outputTokens int) float64 {
	modelCosts, exists := costPerToken[model]
	if !exists {
		// Default to gpt-4o-mini costs if model not found
		modelCosts = costPerToken["gpt-4o-mini"]
	}

	inputCost := (float64(inputTokens) / 1_000_000.0) * modelCosts.input
	outputCost := (float64(outputTokens) / 1_000_000.0) * modelCosts.output
	return inputCost + outputCost
}
