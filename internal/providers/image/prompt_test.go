package image

import (
	"strings"
	"testing"
)

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleFace, RoleBody, RoleSide} {
		if !ValidRole(role) {
			t.Fatalf("role %q reported invalid", role)
		}
	}
	if ValidRole("back") {
		t.Fatalf("unknown role accepted")
	}
}

func TestPromptsEmbedDescription(t *testing.T) {
	description := "a cheerful barista in her twenties"
	for name, prompt := range map[string]string{
		"face": FacePrompt(description),
		"body": BodyPrompt(description),
		"side": SidePrompt(description),
	} {
		if !strings.Contains(prompt, description) {
			t.Fatalf("%s prompt missing description: %q", name, prompt)
		}
	}
	// Body and side prompts must anchor to the face image's subject.
	if !strings.Contains(BodyPrompt(description), "same person") {
		t.Fatalf("body prompt missing consistency phrasing")
	}
	if !strings.Contains(SidePrompt(description), "Same person") {
		t.Fatalf("side prompt missing consistency phrasing")
	}
}
