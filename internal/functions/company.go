package functions

import (
	"context"

	"github.com/m2tx/geminichat/internal/jsonx"
	"github.com/m2tx/geminichat/internal/tool"
)

func Companies() *tool.Declaration {
	return &tool.Declaration{
		Name:        "get_companies",
		Description: "Busca as empresas que tenho acesso.",
		Response: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"companies": map[string]any{
					"type":        "array",
					"description": "A lista de empresas",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id": map[string]any{
								"type":        "string",
								"description": "O ID da empresa",
							},
							"name": map[string]any{
								"type":        "string",
								"description": "O nome da empresa",
							},
						},
					},
				},
			},
		},
		Handler: func(ctx context.Context, argsJSON string) (string, error) {
			return jsonx.Marshal(map[string]any{
				"companies": []map[string]any{
					{"id": "1", "name": "Empresa A"},
					{"id": "2", "name": "Empresa B"},
				},
			})
		},
	}
}
