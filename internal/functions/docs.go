// Package functions bundles the tool declarations the example binaries
// register with the chat model.
package functions

import (
	"context"
	"fmt"

	"github.com/m2tx/geminichat/internal/docs"
	"github.com/m2tx/geminichat/internal/jsonx"
	"github.com/m2tx/geminichat/internal/tool"
)

// DocsSearch returns a tool that searches the document index built from the
// docs/ folder.
func DocsSearch(ix *docs.Index) *tool.Declaration {
	return &tool.Declaration{
		Name:        "search_docs",
		Description: "Searches the internal document library for information relevant to the query. Use this whenever the user asks about topics that might be covered in internal documentation.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query describing what information you need",
				},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, argsJSON string) (string, error) {
			args, err := jsonx.UnmarshalObject(argsJSON)
			if err != nil {
				return "", fmt.Errorf("search_docs: decode arguments: %w", err)
			}
			query, ok := args["query"].(string)
			if !ok || query == "" {
				return "", fmt.Errorf("search_docs: query argument is required")
			}

			matches := ix.Search(query, 3)
			results := make([]map[string]any, 0, len(matches))
			for _, m := range matches {
				results = append(results, map[string]any{
					"filename": m.File,
					"content":  m.Excerpt,
				})
			}
			return jsonx.Marshal(map[string]any{"results": results})
		},
	}
}
