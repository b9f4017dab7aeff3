// Command chat is an interactive terminal chat over the streaming path.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/m2tx/geminichat/internal/chat"
	"github.com/m2tx/geminichat/internal/functions"
	"github.com/m2tx/geminichat/internal/gemini"
	"github.com/m2tx/geminichat/internal/tool"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatal(err)
	}

	registry, err := tool.NewRegistry(
		functions.Weather(),
		functions.Companies(),
	)
	if err != nil {
		log.Fatal(err)
	}

	model, err := gemini.New(&gemini.Config{
		Client:   gemini.WrapClient(client),
		Registry: registry,
		Options: chat.Options{
			Model:     getModel(),
			Functions: registry.Names(),
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer model.Close()

	history := []chat.Message{
		chat.SystemMessage("Você é um agente de suporte que usa ferramentas para responder."),
	}

	fmt.Println("chat started; empty line exits")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			break
		}

		history = append(history, chat.UserMessage(input))

		var reply strings.Builder
		for result, err := range model.Stream(ctx, history, nil) {
			if err != nil {
				log.Fatal(err)
			}
			text := result.Text()
			reply.WriteString(text)
			fmt.Print(text)
		}
		fmt.Println()

		history = append(history, chat.AssistantMessage(reply.String()))
	}

	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func getModel() string {
	model := os.Getenv("MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return model
}
