package entity

// AnimationGroup is a source directory whose files are frames of one animation.
type AnimationGroup struct {
	Path    string
	RelPath string
	Members []string
}
