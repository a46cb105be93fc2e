// Package prompt assembles the bounded text handed to the generation
// backend from conversation context, retrieved documents, and an
// instruction template.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nexacred/ragengine/internal/config"
	"github.com/nexacred/ragengine/internal/retrieval"
)

const generalInstruction = "You are a helpful, knowledgeable, and conversational AI assistant with broad " +
	"knowledge across many domains, including Indian financial regulations. Be natural and conversational, " +
	"use the conversation history to maintain continuity, and admit when you are uncertain."

const groundedInstruction = "Answer the question using the provided sources. Be accurate and concise, cite " +
	"sources by their number, and say so when the sources do not fully answer the question."

// Builder constructs prompts under a fixed character budget.
type Builder struct {
	maxDocs      int
	docCharLimit int
	budget       int
}

// NewBuilder creates a Builder from config, with the standard caps as
// defaults.
func NewBuilder(cfg config.PromptConfig) *Builder {
	b := &Builder{maxDocs: cfg.MaxDocuments, docCharLimit: cfg.DocCharLimit, budget: cfg.CharBudget}
	if b.maxDocs <= 0 {
		b.maxDocs = 3
	}
	if b.docCharLimit <= 0 {
		b.docCharLimit = 800
	}
	if b.budget <= 0 {
		b.budget = 6000
	}
	return b
}

// Build assembles the final prompt. Documents present selects the
// grounded template, otherwise the general one. When the character
// budget would be exceeded, documents are dropped from the end before
// any conversation context is dropped: once both are present but over
// budget, continuity outranks grounding.
func (b *Builder) Build(query, conversation string, docs []retrieval.Document) string {
	if len(docs) > b.maxDocs {
		docs = docs[:b.maxDocs]
	}

	for {
		prompt := b.assemble(query, conversation, docs)
		if len(prompt) <= b.budget {
			return prompt
		}
		if len(docs) > 0 {
			docs = docs[:len(docs)-1]
			continue
		}
		if conversation != "" {
			conversation = ""
			continue
		}
		return prompt
	}
}

func (b *Builder) assemble(query, conversation string, docs []retrieval.Document) string {
	var parts []string

	if conversation != "" {
		parts = append(parts, "Previous conversation:\n"+conversation)
	}
	if len(docs) > 0 {
		parts = append(parts, "Sources:\n"+b.formatDocuments(docs))
	}
	if len(docs) > 0 {
		parts = append(parts, groundedInstruction)
	} else {
		parts = append(parts, generalInstruction)
	}
	parts = append(parts, fmt.Sprintf("Question: %s", query))
	parts = append(parts, "Answer:")

	return strings.Join(parts, "\n\n")
}

// formatDocuments renders at most maxDocs documents as numbered
// sources, each truncated to docCharLimit bytes on a rune boundary.
func (b *Builder) formatDocuments(docs []retrieval.Document) string {
	var sb strings.Builder
	for i, d := range docs {
		content := d.Content
		if len(content) > b.docCharLimit {
			cut := b.docCharLimit
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut] + "..."
		}
		fmt.Fprintf(&sb, "Source %d: %s\n", i+1, content)
	}
	return strings.TrimRight(sb.String(), "\n")
}
