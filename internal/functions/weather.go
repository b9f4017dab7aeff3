package functions

import (
	"context"
	"fmt"

	"github.com/m2tx/geminichat/internal/jsonx"
	"github.com/m2tx/geminichat/internal/tool"
)

func Weather() *tool.Declaration {
	return &tool.Declaration{
		Name:        "get_weather",
		Description: "Busca o clima atual de uma cidade",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "A cidade, ex: São Paulo, SP",
				},
			},
			"required": []string{"location"},
		},
		Response: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "A cidade, ex: São Paulo, SP",
				},
				"temperature": map[string]any{
					"type":        "string",
					"description": "Temperatura atual, ex: 22°C",
				},
				"condition": map[string]any{
					"type":        "string",
					"description": "Condição do tempo, ex: Ensolarado",
				},
			},
		},
		Handler: func(ctx context.Context, argsJSON string) (string, error) {
			args, err := jsonx.UnmarshalObject(argsJSON)
			if err != nil {
				return "", fmt.Errorf("get_weather: decode arguments: %w", err)
			}
			location, ok := args["location"].(string)
			if !ok || location == "" {
				return "", fmt.Errorf("get_weather: location argument is required")
			}

			return jsonx.Marshal(map[string]any{
				"location":    location,
				"temperature": "22°C",
				"condition":   "Ensolarado",
			})
		},
	}
}
