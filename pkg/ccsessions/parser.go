package ccsessions

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a single record in a session file.
type Kind string

const (
	KindUser       Kind = "user"
	KindAssistant  Kind = "assistant"
	KindToolCall   Kind = "tool-call"
	KindToolResult Kind = "tool-result"
	KindOther      Kind = "other"
)

// Record is one normalized entry from a session file. Heterogeneous JSONL
// shapes (string vs block-array content, nested tool blocks) are flattened
// here; nothing downstream sees raw JSON.
type Record struct {
	Kind      Kind
	Timestamp time.Time
	Text      string // user/assistant text, joined from content blocks
	ToolName  string
	ToolText  string // argument or result preview source, already stringified
	IsMeta    bool
	CWD       string
	Sequence  int
}

// ParsedSession represents a fully parsed session file
type ParsedSession struct {
	SessionID      string
	Summary        string // from a summary entry, when present
	Records        []Record
	MalformedLines int
	StartTime      time.Time
	FilePath       string
	FileSize       int64
	FileMtime      time.Time
}

// rawEntry represents a raw JSONL line
type rawEntry struct {
	Type      string          `json:"type"`
	Role      string          `json:"role,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	IsMeta    bool            `json:"isMeta,omitempty"`
	CWD       string          `json:"cwd,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	Name      string          `json:"name,omitempty"`
	ToolInput json.RawMessage `json:"tool_input,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolOut   json.RawMessage `json:"tool_output,omitempty"`
	Output    json.RawMessage `json:"output,omitempty"`
}

// contentBlock is one element of an array-form message content.
type contentBlock struct {
	Type    string          `json:"type"`
	Text    string          `json:"text,omitempty"`
	Name    string          `json:"name,omitempty"`
	Input   json.RawMessage `json:"input,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// ParseFile parses a Claude Code session JSONL file
func ParseFile(path string) (session *ParsedSession, err error) {
	file, ferr := os.Open(path)
	if ferr != nil {
		return nil, fmt.Errorf("failed to open file: %w", ferr)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	sessionID := filepath.Base(path)
	sessionID = sessionID[:len(sessionID)-len(filepath.Ext(sessionID))]

	session, err = Parse(file, sessionID)
	if err != nil {
		return nil, err
	}
	session.FilePath = path
	session.FileSize = info.Size()
	session.FileMtime = info.ModTime()
	return session, nil
}

// Parse reads JSONL records from r. fallbackID is used as the session id
// until a record carries a sessionId field. Lines that fail to decode are
// counted in MalformedLines, never fatal.
func Parse(r io.Reader, fallbackID string) (*ParsedSession, error) {
	session := &ParsedSession{
		SessionID: fallbackID,
		Records:   make([]Record, 0),
	}

	// Larger buffer for long lines (tool outputs can be huge)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

	lineNum := 0
	sawSessionID := false

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw rawEntry
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			session.MalformedLines++
			continue
		}

		// Summary entries are session metadata, not conversation records
		if raw.Type == "summary" {
			session.Summary = raw.Summary
			continue
		}

		if raw.SessionID != "" && !sawSessionID {
			session.SessionID = raw.SessionID
			sawSessionID = true
		}

		for _, rec := range expandEntry(&raw, lineNum) {
			if session.StartTime.IsZero() && !rec.Timestamp.IsZero() {
				session.StartTime = rec.Timestamp
			}
			session.Records = append(session.Records, rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading session: %w", err)
	}

	return session, nil
}

// expandEntry converts one decoded line into zero or more records. A
// message whose content array mixes text and tool blocks yields one record
// per block, preserving block order.
func expandEntry(raw *rawEntry, seq int) []Record {
	base := Record{
		Timestamp: parseTimestamp(raw.Timestamp),
		IsMeta:    raw.IsMeta,
		CWD:       raw.CWD,
		Sequence:  seq,
	}

	switch kindOf(raw) {
	case KindUser, KindAssistant:
		return expandMessage(raw, base)

	case KindToolCall:
		rec := base
		rec.Kind = KindToolCall
		rec.ToolName = firstNonEmpty(raw.ToolName, raw.Name)
		rec.ToolText = toolArgPreview(firstRaw(raw.ToolInput, raw.Input))
		return []Record{rec}

	case KindToolResult:
		rec := base
		rec.Kind = KindToolResult
		rec.ToolName = firstNonEmpty(raw.ToolName, raw.Name)
		rec.ToolText = stringify(firstRaw(raw.ToolOut, raw.Output, raw.Content))
		return []Record{rec}

	default:
		// Unknown kinds are kept so the renderer can still show them.
		rec := base
		rec.Kind = KindOther
		rec.ToolName = raw.Type
		return []Record{rec}
	}
}

func kindOf(raw *rawEntry) Kind {
	t := raw.Type
	if t == "" {
		t = raw.Role
	}
	if t == "" && len(raw.Message) > 0 {
		var m struct {
			Role string `json:"role"`
		}
		if err := json.Unmarshal(raw.Message, &m); err == nil {
			t = m.Role
		}
	}
	switch t {
	case "user", "human":
		return KindUser
	case "assistant":
		return KindAssistant
	case "tool_use", "tool_call", "tool-call":
		return KindToolCall
	case "tool_result", "tool-result":
		return KindToolResult
	default:
		return KindOther
	}
}

func expandMessage(raw *rawEntry, base Record) []Record {
	kind := kindOf(raw)
	content := firstRaw(raw.Content, raw.Message)

	// The message field may wrap the content: {"role": ..., "content": ...}
	if len(raw.Message) > 0 {
		var wrapper struct {
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(raw.Message, &wrapper); err == nil && len(wrapper.Content) > 0 {
			content = wrapper.Content
		}
	}

	// String form (older format)
	var text string
	if err := json.Unmarshal(content, &text); err == nil {
		rec := base
		rec.Kind = kind
		rec.Text = text
		return []Record{rec}
	}

	// Array-of-blocks form
	var blocks []contentBlock
	if err := json.Unmarshal(content, &blocks); err != nil {
		rec := base
		rec.Kind = kind
		return []Record{rec}
	}

	var recs []Record
	var texts []string
	flushText := func() {
		if len(texts) == 0 {
			return
		}
		rec := base
		rec.Kind = kind
		rec.Text = strings.Join(texts, "\n")
		recs = append(recs, rec)
		texts = nil
	}

	for _, block := range blocks {
		switch block.Type {
		case "text":
			texts = append(texts, block.Text)
		case "tool_use":
			flushText()
			rec := base
			rec.Kind = KindToolCall
			rec.ToolName = block.Name
			rec.ToolText = toolArgPreview(block.Input)
			recs = append(recs, rec)
		case "tool_result":
			flushText()
			rec := base
			rec.Kind = KindToolResult
			rec.ToolText = stringify(block.Content)
			recs = append(recs, rec)
		}
	}
	flushText()

	if len(recs) == 0 {
		rec := base
		rec.Kind = kind
		return []Record{rec}
	}
	return recs
}

// toolArgPreview picks the most identifying argument of a tool call.
func toolArgPreview(input json.RawMessage) string {
	if len(input) == 0 {
		return ""
	}
	var args map[string]json.RawMessage
	if err := json.Unmarshal(input, &args); err != nil {
		return stringify(input)
	}
	for _, key := range []string{"file_path", "path", "pattern", "command", "url", "description", "prompt"} {
		if v, ok := args[key]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil && s != "" {
				return s
			}
		}
	}
	return stringify(input)
}

// stringify flattens a raw JSON value to display text.
func stringify(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	// Result values may carry nested text blocks
	var blocks []contentBlock
	if err := json.Unmarshal(v, &blocks); err == nil {
		var texts []string
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" {
				texts = append(texts, b.Text)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n")
		}
	}
	return string(v)
}

// parseTimestamp accepts RFC3339 (with or without zone) and epoch
// seconds/milliseconds, either as JSON string or number.
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, format := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(format, s); err == nil {
				return t
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return epochTime(n)
		}
		return time.Time{}
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return epochTime(n)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return epochTime(int64(f))
	}
	return time.Time{}
}

func epochTime(n int64) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	// Values this large can only be milliseconds
	if n > 1_000_000_000_000 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstRaw(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}
