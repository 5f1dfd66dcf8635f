// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// FileMap maps a filename to the document saved under it. It is the virtual
// file store owned by the host agent session.
type FileMap map[string]string

// Names returns the filenames in lexical order.
func (m FileMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy of m. A nil map clones to an empty one.
func (m FileMap) Clone() FileMap {
	out := make(FileMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Apply returns a new mapping holding every entry of m plus the files in u.
// Entries of m that u does not name are left untouched; m itself is not
// modified.
func (m FileMap) Apply(u Update) FileMap {
	out := m.Clone()
	for k, v := range u.Files {
		out[k] = v
	}
	return out
}

// ToolContext is what the host passes into a tool invocation: a read-only
// snapshot of the session files and the identifier of the originating call.
type ToolContext struct {
	Files      FileMap
	ToolCallID string
}

// ToolMessage is a message appended to the host's message stream, addressed
// to the tool call that produced it.
type ToolMessage struct {
	ToolCallID string `json:"tool_call_id" yaml:"tool_call_id"`
	Content    string `json:"content" yaml:"content"`
}

// Update is the outcome of a tool invocation. Files holds only the new
// entries; the host merges them into its mapping and appends Messages to
// the conversation in one step.
type Update struct {
	Files    FileMap       `json:"files" yaml:"files"`
	Messages []ToolMessage `json:"messages" yaml:"messages"`
}

// Message returns the content of the first message, or "" when there is none.
func (u Update) Message() string {
	if len(u.Messages) == 0 {
		return ""
	}
	return u.Messages[0].Content
}
