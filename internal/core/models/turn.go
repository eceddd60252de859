package models

import "time"

// Role identifies who a normalized turn belongs to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolCategory groups tools for icon selection.
type ToolCategory string

const (
	CategoryFileOp   ToolCategory = "file-op"
	CategoryShell    ToolCategory = "shell"
	CategoryWeb      ToolCategory = "web"
	CategoryTodo     ToolCategory = "todo"
	CategoryTaskNote ToolCategory = "task-note"
	CategoryOther    ToolCategory = "other"
)

// ToolNote is a short, display-ready note about one tool invocation,
// attached to the assistant turn it occurred in.
type ToolNote struct {
	Category ToolCategory
	Label    string // tool name or record type
	Preview  string // truncated argument/result preview, may be empty
}

// Turn is one display unit of a normalized conversation. An assistant turn
// may carry only tool notes and no text.
type Turn struct {
	Role      Role
	Timestamp time.Time
	Text      string
	Notes     []ToolNote
}
