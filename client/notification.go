package client

import (
	"chat-hub/domain"
	"fmt"
)

// Alert is what the user is shown for an incoming message.
type Alert struct {
	Conversation domain.Target
	Mention      Mention
	Sender       string
	Group        string
	Text         string
	Sound        bool
}

// Title is the headline of the alert, naming the sender and the group if any.
func (a Alert) Title() string {
	from := a.Sender
	if from == "" {
		from = "Someone"
	}
	if a.Group != "" {
		from = fmt.Sprintf("%s in %s", from, a.Group)
	}
	switch a.Mention {
	case MentionEveryone:
		return "Everyone mentioned by " + from
	case MentionMe:
		return "You were mentioned by " + from
	default:
		return from
	}
}

// decision is the outcome of the notification policy for one message.
type decision struct {
	alert   bool
	sound   bool
	mention Mention
}

// decide applies the notification policy:
// own messages never alert, other conversations always do, and the open
// conversation only alerts on a mention.
func decide(message domain.Message, me domain.Identity, active, soundEnabled bool) decision {
	if domain.SameID(message.SenderID, me.ID) {
		return decision{}
	}
	mention := MentionNone
	if message.IsGroup() {
		mention = ClassifyMention(message.Text, me.FullName)
	}
	alert := !active || mention != MentionNone
	return decision{alert: alert, sound: alert && soundEnabled, mention: mention}
}
