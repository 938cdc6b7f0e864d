package resources

// ResourceConfig represents the resource catalogue loaded from YAML.
// It maps the resource IDs used by the story (IMAGE_*, SOUND_*, AMBIENCE_*)
// to files under the assets directory.
//
// Structure:
//
//	version: "1.0"
//	base_path: assets
//	groups:
//	  group_name:
//	    images: [...]
//	    sounds: [...]
//	    fonts: [...]
type ResourceConfig struct {
	Version  string                   `yaml:"version"`   // Configuration file version
	BasePath string                   `yaml:"base_path"` // Base path for all resources (e.g., "assets")
	Groups   map[string]ResourceGroup `yaml:"groups"`    // Resource groups keyed by group name
}

// ResourceGroup represents a collection of related resources that can be loaded together.
type ResourceGroup struct {
	Images []ImageResource `yaml:"images"`
	Sounds []SoundResource `yaml:"sounds"`
	Fonts  []FontResource  `yaml:"fonts"`
}

// ImageResource represents a single image resource definition.
//
// Example:
//
//   - id: IMAGE_PURSE
//     path: images/purse
type ImageResource struct {
	ID   string `yaml:"id"`   // Resource ID (unique identifier)
	Path string `yaml:"path"` // Relative file path from base_path, ".png" is assumed when omitted
}

// SoundResource represents a single sound resource definition.
// Loop marks ambience tracks; they are still loaded on demand by the audio manager.
//
// Example:
//
//   - id: AMBIENCE_RAIN
//     path: sounds/rain
//     loop: true
type SoundResource struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"` // ".ogg" is assumed when omitted
	Loop bool   `yaml:"loop,omitempty"`
}

// FontResource represents a single font resource definition.
type FontResource struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// buildFullPath combines the base path with a resource's relative path.
//
// Example:
//
//	buildFullPath("assets", "images/scene") -> "assets/images/scene"
func buildFullPath(basePath, relativePath string) string {
	if basePath == "" {
		return relativePath
	}
	if len(relativePath) > 0 && relativePath[0] == '/' {
		return basePath + relativePath
	}
	return basePath + "/" + relativePath
}
