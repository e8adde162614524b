// Package ai generates draft compliance text (explanations, SOP
// skeletons, evidence checklists) for objective elements.
package ai

import (
	"context"
	"fmt"
	"strings"
)

// Kind selects what sort of draft is requested.
type Kind string

const (
	KindExplanation Kind = "explanation"
	KindSOP         Kind = "sop"
	KindEvidence    Kind = "evidence"
)

// DraftRequest describes one drafting request.
type DraftRequest struct {
	ElementCode string
	Description string
	Kind        Kind
	// Language is a hint like "English" or "Hindi"; empty means English.
	Language string
}

// Drafter produces draft text for an objective element.
type Drafter interface {
	Draft(ctx context.Context, req DraftRequest) (string, error)
	Name() string
}

// BuildPrompt renders the drafting prompt shared by every provider.
func BuildPrompt(req DraftRequest) string {
	language := req.Language
	if language == "" {
		language = "English"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are helping a hospital quality team prepare for NABH accreditation.\n")
	fmt.Fprintf(&b, "Objective element %s: %s\n\n", req.ElementCode, strings.TrimSpace(req.Description))

	switch req.Kind {
	case KindSOP:
		fmt.Fprintf(&b, "Write a standard operating procedure that satisfies this objective element. Include purpose, scope, responsibilities, and numbered procedure steps.")
	case KindEvidence:
		fmt.Fprintf(&b, "List the documents, records, and observations a hospital should collect as evidence of compliance with this objective element. One item per line.")
	default:
		fmt.Fprintf(&b, "Explain in plain language what this objective element requires of the hospital and how an assessor typically verifies it.")
	}
	fmt.Fprintf(&b, "\nRespond in %s. Be concise and practical.", language)
	return b.String()
}

func validateRequest(req DraftRequest) error {
	if strings.TrimSpace(req.ElementCode) == "" {
		return fmt.Errorf("element code is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("element description is required")
	}
	return nil
}
