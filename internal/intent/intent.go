// Package intent maps free-text commands to one of the supported actions.
package intent

import "strings"

// Action is a recognized user intent.
type Action string

const (
	Transfer      Action = "transfer"
	AddContact    Action = "addContact"
	CheckBalance  Action = "checkBalance"
	CreateInvoice Action = "createInvoice"
	SplitBill     Action = "splitBill"
)

// trigger phrases per action; order of the table is the tie-break order
var table = []struct {
	action   Action
	triggers []string
}{
	{Transfer, []string{
		"transfer", "transaction", "transference", "send money", "money transfer",
		"funds", "wire money", "money wiring", "send",
	}},
	{AddContact, []string{
		"add contact", "create contact", "new contact", "new person", "add",
		"contact", "save", "save contact", "details", "information", "create", "new",
	}},
	{CheckBalance, []string{
		"check", "balance", "inquiry", "consult", "available", "account",
		"update", "have", "status", "request", "remaining",
	}},
	{CreateInvoice, []string{
		"send me the payment", "send me", "pay", "invoice", "send me the money",
		"send me the funds", "give me the payment", "give me the money",
		"give me the funds", "pay me back", "pay me what you owe", "pay me the money",
		"pay me the funds", "reimburse me", "settle up with me", "square up with me",
		"hand me",
	}},
	{SplitBill, []string{
		"split", "divide", "share", "allocate", "apportion", "distribute", "separate",
		"split up", "break up", "divvy up", "distribute evenly", "divide equally",
		"share equally", "each of us", "each need to pay", "each", "your part",
		"your share", "owes me", "their", "drop me their", "hit me their",
		"gimme their", "slide me", "cover up their", "hand over", "hand over their",
		"chip in your", "chip in their", "chip in his", "chip in its",
	}},
}

// Actions returns every action in tie-break order.
func Actions() []Action {
	out := make([]Action, len(table))
	for i, row := range table {
		out[i] = row.action
	}
	return out
}

// Triggers returns a copy of the trigger phrases of a.
func Triggers(a Action) []string {
	for _, row := range table {
		if row.action == a {
			return append([]string(nil), row.triggers...)
		}
	}
	return nil
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	return Triggers(a) != nil
}

// Classify returns the first action whose trigger appears in input as whole
// words. Multi-word triggers must appear as an adjacent run in the same order.
func Classify(input string) (Action, bool) {
	tokens := strings.Fields(strings.ToLower(input))
	if len(tokens) == 0 {
		return "", false
	}
	for _, row := range table {
		for _, trigger := range row.triggers {
			if containsPhrase(tokens, strings.Fields(trigger)) {
				return row.action, true
			}
		}
	}
	return "", false
}

func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		for j, word := range phrase {
			if tokens[i+j] != word {
				continue outer
			}
		}
		return true
	}
	return false
}
