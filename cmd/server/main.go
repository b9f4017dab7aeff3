package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/genai"

	"github.com/m2tx/geminichat/internal/chat"
	"github.com/m2tx/geminichat/internal/docs"
	"github.com/m2tx/geminichat/internal/functions"
	"github.com/m2tx/geminichat/internal/gemini"
	"github.com/m2tx/geminichat/internal/repository"
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

	mongoClient, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(getMongoURI()))
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("mongodb disconnect: %v", err)
		}
	}()

	repo := repository.NewMongoSessionRepository(mongoClient.Database(getMongoDB()), "sessions")

	index := docs.NewIndex()
	if err := index.Load(getDocsDir()); err != nil {
		log.Fatal(err)
	}

	registry, err := tool.NewRegistry(
		functions.Weather(),
		functions.Companies(),
		functions.DocsSearch(index),
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

	server := &server{
		model:             model,
		repo:              repo,
		systemInstruction: getSystemInstruction(),
	}

	http.HandleFunc("/prompt", server.handlePrompt)
	http.HandleFunc("/history", server.handleHistory)

	log.Printf("listening on :%s", getHTTPPort())
	log.Fatal(http.ListenAndServe(":"+getHTTPPort(), nil))
}

type server struct {
	model             *gemini.ChatModel
	repo              repository.SessionRepository
	systemInstruction string
}

func (s *server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
		Prompt    string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	history, err := s.repo.Load(ctx, req.SessionID)
	if err != nil {
		log.Printf("load session %q: %v", req.SessionID, err)
		http.Error(w, "load session", http.StatusInternalServerError)
		return
	}

	conversation := make([]chat.Message, 0, len(history)+2)
	if s.systemInstruction != "" {
		conversation = append(conversation, chat.SystemMessage(s.systemInstruction))
	}
	conversation = append(conversation, history...)
	conversation = append(conversation, chat.UserMessage(req.Prompt))

	result, err := s.model.Call(ctx, conversation, nil)
	if err != nil {
		log.Printf("generate for session %q: %v", req.SessionID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	history = append(history, chat.UserMessage(req.Prompt), chat.AssistantMessage(result.Text()))
	if err := s.repo.Save(ctx, req.SessionID, history); err != nil {
		log.Printf("warning: failed to save session %q: %v", req.SessionID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	json.NewEncoder(w).Encode(result)
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if r.Method == http.MethodGet {
		history, err := s.repo.Load(r.Context(), sessionID)
		if err != nil {
			log.Printf("load session %q: %v", sessionID, err)
			http.Error(w, "load session", http.StatusInternalServerError)
			return
		}
		if history == nil {
			history = []chat.Message{}
		}
		json.NewEncoder(w).Encode(history)
	}

	if r.Method == http.MethodDelete {
		if err := s.repo.Delete(r.Context(), sessionID); err != nil {
			log.Printf("warning: failed to delete session %q: %v", sessionID, err)
		}
	}
}

func getModel() string {
	model := os.Getenv("MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return model
}

func getHTTPPort() string {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return port
}

func getMongoURI() string {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	return uri
}

func getMongoDB() string {
	db := os.Getenv("MONGODB_DB")
	if db == "" {
		db = "agent_sessions"
	}

	return db
}

func getDocsDir() string {
	dir := os.Getenv("DOCS_DIR")
	if dir == "" {
		dir = "docs"
	}

	return dir
}

func getSystemInstruction() string {
	instruction := os.Getenv("SYSTEM_INSTRUCTION")
	if instruction == "" {
		instruction = "Você é um agente de suporte que usa ferramentas para responder."
	}

	return instruction
}
