// Package chatbot answers drug-inventory questions by keyword matching.
package chatbot

import (
	"fmt"
	"strings"
)

type Drug struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DefaultInventory is the static stock the bot reports on.
var DefaultInventory = []Drug{
	{Name: "Aspirin", Quantity: 100},
	{Name: "Ibuprofen", Quantity: 50},
	{Name: "Paracetamol", Quantity: 200},
	{Name: "Amoxicillin", Quantity: 75},
	{Name: "Lisinopril", Quantity: 30},
}

const helpReply = "I'm sorry, I don't understand. You can ask me to 'list all drugs' or ask about a specific drug's inventory, for example: 'how much aspirin do you have?'"

type Bot struct {
	drugs []Drug
}

func NewBot(drugs []Drug) *Bot {
	return &Bot{drugs: append([]Drug(nil), drugs...)}
}

// Reply matches case-insensitively. Listing keywords win over drug names, and
// the first drug in inventory order wins when several are mentioned.
func (b *Bot) Reply(message string) string {
	msg := strings.ToLower(message)

	if strings.Contains(msg, "list all") || strings.Contains(msg, "inventory") {
		var sb strings.Builder
		sb.WriteString("Here is the current drug inventory:")
		for _, d := range b.drugs {
			fmt.Fprintf(&sb, "\n- %s: %d", d.Name, d.Quantity)
		}
		return sb.String()
	}

	for _, d := range b.drugs {
		if strings.Contains(msg, strings.ToLower(d.Name)) {
			return fmt.Sprintf("We have %d units of %s in stock.", d.Quantity, d.Name)
		}
	}
	return helpReply
}
