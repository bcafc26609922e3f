// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the ragdesk CLI.
//
// Handles the "ragdesk chat" command, an interactive REPL that sends
// each prompt to the document backend and renders the grounded answer.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   ragdesk chat                      Start interactive chat
//   ragdesk chat --model gpt-4o-mini  Use a specific generation model
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /new                Start a new conversation
//   /list               List conversations
//   /switch ID          Switch to a conversation
//   /clear              Clear the current conversation
//   /history            Show conversation history
//   /meta TEXT          Set meta information for retrieval
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/expansionlabs/ragdesk/internal/config"
	"github.com/expansionlabs/ragdesk/internal/docservice"
	"github.com/expansionlabs/ragdesk/internal/model"
	"github.com/expansionlabs/ragdesk/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatInput provides line editing and input history for interactive chat.
type ChatInput struct {
	line        *liner.State
	historyFile string
}

// NewChatInput creates a ChatInput with persistent history.
func NewChatInput() *ChatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	in := &ChatInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	in.loadHistory()
	return in
}

func (c *ChatInput) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Non-empty lines are added to the history.
func (c *ChatInput) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatInput) saveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatInput) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive chat REPL.
func HandleChat(app *App, args Args) error {
	ctx := context.Background()

	if !args.Quiet {
		printChatWelcome(app)
	}

	input := NewChatInput()
	defer input.Close()

	for {
		line, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			// liner returns io.EOF on Ctrl+D and ErrPromptAborted on Ctrl+C
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleChatCommand(app, line); quit {
				return nil
			}
			continue
		}

		if err := sendChatMessage(ctx, app, args, line); err != nil {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		}
	}
}

// sendChatMessage records the user turn, queries the backend, and records
// the grounded reply. Conversation state is updated before the request so
// the prompt survives locally even if the backend is down.
func sendChatMessage(ctx context.Context, app *App, args Args, text string) error {
	conv := app.Sessions.Current()
	if conv == nil {
		app.Sessions.CreateConversation()
		conv = app.Sessions.Current()
	}

	// History is the conversation before this turn
	history := make([]docservice.ChatMessage, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		history = append(history, docservice.ChatMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}

	app.Sessions.AddMessage(conv.ID, model.NewUserMessage(text))

	modelName := args.Model
	if modelName == "" {
		modelName = app.Config.Chat.Model
	}

	resp, err := app.Client.Chat(ctx, docservice.ChatRequest{
		Message:         text,
		History:         history,
		TopK:            app.Config.Chat.TopK,
		Model:           modelName,
		Temperature:     app.Config.Chat.Temperature,
		MetaInformation: conv.MetaInformation,
	})
	if err != nil {
		return err
	}

	sources := make([]model.Citation, 0, len(resp.Chunks))
	for _, chunk := range resp.Chunks {
		sources = append(sources, model.Citation{
			ChunkID:    chunk.ChunkID,
			DocumentID: chunk.DocumentID,
			Text:       chunk.Text,
			Score:      chunk.Score,
			Metadata:   chunk.Metadata,
		})
	}
	reply := model.NewAssistantMessage(resp.Message.Content, sources, resp.ExpandedQueries)
	app.Sessions.AddMessage(conv.ID, reply)

	displayResponse(resp.Message.Content)
	printCitations(reply.Sources)
	return nil
}

// handleChatCommand dispatches a /command. Returns true to exit the REPL.
func handleChatCommand(app *App, line string) bool {
	parts := strings.Fields(line)
	cmd := parts[0]
	rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		printChatHelp()

	case "/new":
		id := app.Sessions.CreateConversation()
		fmt.Println(DimStyle.Render("Started conversation " + id))

	case "/list":
		printConversations(app)

	case "/switch":
		if rest == "" {
			fmt.Println(WarningStyle.Render("Usage: /switch ID"))
			break
		}
		app.Sessions.SelectConversation(rest)
		if conv := app.Sessions.Current(); conv != nil {
			fmt.Println(DimStyle.Render("Switched to: " + conv.Title))
		} else {
			fmt.Println(WarningStyle.Render("No conversation with id " + rest))
		}

	case "/clear":
		if app.Sessions.ClearCurrentConversation() {
			fmt.Println(DimStyle.Render("Conversation cleared"))
		} else {
			fmt.Println(DimStyle.Render("Cancelled"))
		}

	case "/history":
		printHistory(app)

	case "/meta":
		conv := app.Sessions.Current()
		if conv == nil {
			break
		}
		app.Sessions.UpdateMetaInformation(conv.ID, rest)
		if rest == "" {
			fmt.Println(DimStyle.Render("Meta information cleared"))
		} else {
			fmt.Println(DimStyle.Render("Meta information set"))
		}

	default:
		fmt.Println(WarningStyle.Render("Unknown command: " + cmd + " (try /help)"))
	}
	return false
}

// =============================================================================
// DISPLAY
// =============================================================================

func printChatWelcome(app *App) {
	fmt.Println(TitleStyle.Render("ragdesk " + Version))
	fmt.Println(DimStyle.Render("Backend: " + app.Client.BaseURL()))
	if conv := app.Sessions.Current(); conv != nil {
		fmt.Println(DimStyle.Render("Conversation: " + conv.Title))
	}
	fmt.Println(DimStyle.Render("Type /help for commands, Ctrl+D to exit"))
	fmt.Println()
}

func printChatHelp() {
	fmt.Println(TitleStyle.Render("Chat Commands"))
	fmt.Println("  /new          Start a new conversation")
	fmt.Println("  /list         List conversations")
	fmt.Println("  /switch ID    Switch to a conversation")
	fmt.Println("  /clear        Clear the current conversation")
	fmt.Println("  /history      Show conversation history")
	fmt.Println("  /meta TEXT    Set meta information sent with retrieval")
	fmt.Println("  /quit         Exit chat")
}

func printConversations(app *App) {
	current := app.Sessions.CurrentID()
	for _, conv := range app.Sessions.Conversations() {
		marker := "  "
		if conv.ID == current {
			marker = SuccessStyle.Render("* ")
		}
		fmt.Printf("%s%s  %s  %s\n",
			marker,
			DimStyle.Render(conv.ID),
			ValueStyle.Render(util.TruncateRunes(conv.Title, 40)),
			DimStyle.Render(conv.LastUpdated.Format("2006-01-02 15:04")))
	}
}

func printHistory(app *App) {
	conv := app.Sessions.Current()
	if conv == nil || len(conv.Messages) == 0 {
		fmt.Println(DimStyle.Render("(no messages)"))
		return
	}
	for _, msg := range conv.Messages {
		fmt.Printf("%s %s\n",
			PromptStyle.Render(msg.Role.DisplayName()+":"),
			msg.Content)
	}
}

func printCitations(sources []model.Citation) {
	if len(sources) == 0 {
		return
	}
	fmt.Println(CitationStyle.Render("Sources:"))
	for _, src := range sources {
		name := src.Filename()
		if name == "" {
			name = src.DocumentID
		}
		if page, ok := src.PageNumber(); ok {
			fmt.Printf("  %s (p. %d, score %.2f)\n", name, page, src.Score)
		} else {
			fmt.Printf("  %s (score %.2f)\n", name, src.Score)
		}
	}
	fmt.Println()
}
