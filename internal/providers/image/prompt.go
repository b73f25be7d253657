package image

import "fmt"

// Reference image roles produced by the character pipeline.
const (
	RoleFace = "face"
	RoleBody = "body"
	RoleSide = "side"
)

// ValidRole reports whether role names a known reference image.
func ValidRole(role string) bool {
	switch role {
	case RoleFace, RoleBody, RoleSide:
		return true
	}
	return false
}

// FacePrompt builds the headshot prompt for a character description.
func FacePrompt(description string) string {
	return fmt.Sprintf("Professional headshot portrait photograph. %s. "+
		"Close-up of face, direct eye contact with camera. "+
		"Studio lighting, soft shadows, professional photography. "+
		"Clean background, sharp focus on face. "+
		"High quality, 4K, photorealistic.", description)
}

// BodyPrompt builds the full-body prompt. The same-person phrasing keeps the
// generated figure consistent with the face image.
func BodyPrompt(description string) string {
	return fmt.Sprintf("Professional full body portrait photograph of the same person. %s. "+
		"Standing pose, confident posture, looking at camera. "+
		"Full body visible from head to toe. "+
		"Studio lighting, clean background. "+
		"High quality, 4K, photorealistic. "+
		"Same person, same facial features, same appearance.", description)
}

// SidePrompt builds the side-profile prompt.
func SidePrompt(description string) string {
	return fmt.Sprintf("Professional side profile portrait photograph of the same person. %s. "+
		"90 degree side view, profile shot. "+
		"Studio lighting, clean background. "+
		"High quality, 4K, photorealistic. "+
		"Same person, same facial features, same appearance.", description)
}
