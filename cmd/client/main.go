package main

import (
	"bufio"
	"chat-hub/client"
	"chat-hub/domain"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL    string        `env:"CHAT_SERVER_URL,default=http://localhost:3000"`
	SocketURL    string        `env:"CHAT_SOCKET_URL,default=ws://localhost:3000/ws"`
	Email        string        `env:"CHAT_EMAIL,required=true"`
	Password     string        `env:"CHAT_PASSWORD,required=true"`
	SoundEnabled bool          `env:"CHAT_SOUND,default=false"`
	Retry        time.Duration `env:"CHAT_RECONNECT_INTERVAL,default=2s"`
	LogLevel     string        `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewHTTPAPI(config.ServerURL)
	session, err := api.Login(ctx, config.Email, config.Password)
	if err != nil {
		return exitRuntime, fmt.Errorf("login failed: %w", err)
	}

	socket, err := client.NewSocketTransport(log, config.SocketURL, session.Token, 64, config.Retry)
	if err != nil {
		return exitConfig, err
	}
	go func() { _ = socket.Run(ctx) }()

	engine := client.NewEngine(log, session.Identity, api, newTerminalNotifier())
	go func() { _ = engine.Run(ctx) }()
	engine.SetSoundEnabled(config.SoundEnabled)
	engine.Subscribe(ctx, socket)
	engine.Refresh()

	printHelp(session.FullName)
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			handle(engine, strings.TrimSpace(line))
		}
	}
}

func handle(engine *client.Engine, line string) {
	fields := strings.Fields(line)
	switch {
	case len(fields) == 0:
	case fields[0] == "/chats":
		printChats(engine.Snapshot())
	case fields[0] == "/history":
		printHistory(engine.Snapshot())
	case fields[0] == "/refresh":
		engine.Refresh()
	case fields[0] == "/sound" && len(fields) == 2:
		engine.SetSoundEnabled(fields[1] == "on")
	case fields[0] == "/dm" && len(fields) == 2:
		engine.Open(domain.DirectTarget(fields[1]))
	case fields[0] == "/group" && len(fields) == 2:
		engine.Open(domain.GroupTarget(fields[1]))
	case strings.HasPrefix(fields[0], "/"):
		printHelp("")
	default:
		if _, err := engine.Send(domain.Body{Text: line}); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func printHelp(name string) {
	if name != "" {
		fmt.Printf(">>> Connected as %s\n", name)
	}
	fmt.Println("Commands: /chats  /history  /refresh  /dm <userId>  /group <groupId>  /sound on|off")
	fmt.Println("Anything else is sent to the open conversation.")
}

func printChats(snapshot client.Snapshot) {
	for _, c := range snapshot.Conversations {
		marker := " "
		if c.Unread(snapshot.Me.ID) {
			marker = "*"
		}
		last := ""
		if c.LastMessage != nil {
			last = c.LastMessage.Text
		}
		fmt.Printf("%s %-6s %-36s %-20s %s\n", marker, c.Target.Kind, c.Target.ID, c.Name, last)
	}
}

func printHistory(snapshot client.Snapshot) {
	for _, m := range snapshot.Messages {
		state := ""
		if m.Pending {
			state = " (sending)"
		}
		fmt.Printf("[%s] %s: %s%s\n", m.CreatedAt.Local().Format("15:04:05"), m.SenderID, m.Text, state)
	}
}
