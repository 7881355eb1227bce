// Package prompt builds the instruction text sent to code generation backends.
package prompt

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/doeshing/codeshai/internal/domain"
)

const localTemplate = `Generate Python code for: {{.Request}}

Rules:
1. Include all imports (os, shutil, pathlib)
2. Use try/except for error handling
3. Print clear messages
4. No input() or interactive code
5. Return ONLY the Python code
{{- with .LastRequest}}

Last command: {{.}}
{{- end}}
`

const networkedTemplate = `You are a helpful AI assistant that generates Python code to control the user's computer.
The user will describe what they want to do in natural language, and you should generate safe, appropriate Python code to accomplish that task.

IMPORTANT SAFETY RULES:
1. Generate code for file operations (move, copy, rename, delete, create directories) AND listing/inspecting files
2. Always use proper error handling with try/except blocks
3. Never generate code that could harm the system or access sensitive data (like system passwords)
4. ALWAYS include ALL necessary import statements at the top (import os, import shutil, import pathlib, etc.)
5. Use the os, shutil, pathlib, and other standard Python libraries
6. Always check if files/directories exist before operating on them
7. Provide clear, descriptive output messages
8. NEVER use input() or any interactive prompts - the code must run automatically
9. Do not ask for user confirmation in the code - assume the user has already confirmed
{{- if .History}}

PREVIOUS CONVERSATION HISTORY:
{{- range .History}}

--- Previous Command {{.Index}} ---
User: {{.Request}}
Generated Code:
{{.Code}}
{{- with .Result}}
Result: {{.}}
{{- end}}
{{- end}}

You can reference files, folders, or results from the previous commands above.
{{- end}}
`

const requestTemplate = `
Current User Request: {{.Request}}

Generate Python code that:
1. STARTS with ALL necessary import statements (import os, import shutil, import pathlib, etc.)
2. Safely performs the requested operation
3. Includes proper error handling
4. Provides user feedback through print statements
5. Is ready to execute without any user interaction
6. Can reference previous results if the user is asking for follow-up operations
7. Runs completely automatically (no input(), confirm prompts, or user interaction)

CRITICAL: The code will run in a non-interactive environment. Do NOT include:
- input() calls
- confirmation prompts
- any code that waits for user input

Return ONLY the Python code, no explanations or markdown formatting.`

var (
	localPrompt     = template.Must(template.New("local").Parse(localTemplate + requestTemplate))
	networkedPrompt = template.Must(template.New("networked").Parse(networkedTemplate + requestTemplate))
)

type historyView struct {
	Index   int
	Request string
	Code    string
	Result  string
}

type templateData struct {
	Request     string
	LastRequest string
	History     []historyView
}

// Compose renders the prompt for request. The local backend gets a terse
// template and only the newest prior request; networked backends get the
// full rules and up to PromptHistoryWindow prior exchanges, oldest first.
func Compose(request string, provider domain.Provider, history []domain.ConversationEntry) string {
	data := templateData{Request: request}
	tmpl := networkedPrompt

	if provider.IsLocal() {
		tmpl = localPrompt
		if n := len(history); n > 0 {
			data.LastRequest = history[n-1].UserRequest
		}
	} else {
		data.History = recentHistory(history, domain.PromptHistoryWindow)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return strings.TrimSpace("Current User Request: " + request)
	}
	return buf.String()
}

func recentHistory(history []domain.ConversationEntry, window int) []historyView {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	views := make([]historyView, 0, len(history))
	for i, entry := range history {
		views = append(views, historyView{
			Index:   i + 1,
			Request: entry.UserRequest,
			Code:    entry.GeneratedCode,
			Result:  entry.Result(),
		})
	}
	return views
}
