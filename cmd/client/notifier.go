package main

import (
	"chat-hub/client"
	"fmt"

	"github.com/gookit/color"
)

// terminalNotifier prints alerts in colour; the bell stands for the sound.
type terminalNotifier struct {
	mention  color.Style
	everyone color.Style
	plain    color.Style
	failure  color.Style
}

func newTerminalNotifier() *terminalNotifier {
	return &terminalNotifier{
		mention:  color.New(color.FgRed, color.OpBold),
		everyone: color.New(color.FgYellow, color.OpBold),
		plain:    color.New(color.FgCyan),
		failure:  color.New(color.FgLightRed),
	}
}

func (n *terminalNotifier) Alert(alert client.Alert) {
	style := n.plain
	switch alert.Mention {
	case client.MentionMe:
		style = n.mention
	case client.MentionEveryone:
		style = n.everyone
	}
	if alert.Sound {
		fmt.Print("\a")
	}
	style.Printf("%s: %s\n", alert.Title(), alert.Text)
}

func (n *terminalNotifier) Error(err error) {
	n.failure.Printf("error: %v\n", err)
}
