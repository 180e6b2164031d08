package prompt

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed template/selection.txt
	selectionRaw string

	//go:embed template/summarize.txt
	summarizeRaw string
)

// PromptSet holds the system prompts of the two model calls.
type PromptSet struct {
	Selection string
	Summarize string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Selection: strings.TrimSpace(selectionRaw),
		Summarize: strings.TrimSpace(summarizeRaw),
	}
}

// SummaryRequest frames the user query and the retrieved data for the
// summarization call. data must already be JSON.
func SummaryRequest(query string, data []byte) string {
	return fmt.Sprintf(
		"User query: %q\n\nRetrieved data (JSON): %s\n\n"+
			"Based on the above data, please provide a natural language summary that strictly answers the user's query. "+
			"Do not include information outside the scope of the query.",
		query, data,
	)
}
