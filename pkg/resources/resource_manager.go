// Package resources loads the images, sounds and fonts referenced by the
// story through Ebitengine, resolving resource IDs via data/resources.yaml.
package resources

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"path/filepath"
	"strings"

	"github.com/decker502/casefile/internal/au"
	"github.com/decker502/casefile/pkg/embedded"
	"github.com/decker502/casefile/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
	"gopkg.in/yaml.v3"
)

// ResourceConfigPath is the embedded resource catalogue.
const ResourceConfigPath = "data/resources.yaml"

// ResourceManager is responsible for centralized management of game resources.
// It provides loading and caching mechanisms for images, audio and fonts,
// ensuring that resources are loaded only once and reused.
//
// ResourceManager implements game.AudioSource, so the audio manager never
// sees file paths or decoders.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. For the single-threaded game loop,
// no synchronization is needed.
//
// Usage:
//
//	audioContext := audio.NewContext(48000)
//	rm := NewResourceManager(audioContext)
//	if err := rm.LoadResourceConfig(ResourceConfigPath); err != nil {
//	    return err
//	}
//	img, err := rm.LoadImageByID("IMAGE_SCENE")
type ResourceManager struct {
	imageCache    map[string]*ebiten.Image    // path -> Image
	playerCache   map[playerKey]*audio.Player // (resource ID, loop) -> Player
	fontFaceCache map[string]*text.GoTextFace // "id:size" -> face
	audioContext  *audio.Context              // may be nil when audio is unavailable

	config      *ResourceConfig
	resourceMap map[string]string // resource ID -> file path
}

// playerKey 区分同一资源的单次播放器和循环播放器
type playerKey struct {
	id   string
	loop bool
}

// decodedStream is what every Ebitengine decoder returns.
type decodedStream interface {
	io.ReadSeeker
	Length() int64
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - audioContext: The audio context used to create players. May be nil, in
//     which case every audio load fails and the experience runs silent.
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		imageCache:    make(map[string]*ebiten.Image),
		playerCache:   make(map[playerKey]*audio.Player),
		fontFaceCache: make(map[string]*text.GoTextFace),
		audioContext:  audioContext,
		resourceMap:   make(map[string]string),
	}
}

// LoadResourceConfig loads and parses the YAML resource catalogue.
//
// Parameters:
//   - configPath: Path to the catalogue (e.g., "data/resources.yaml")
//
// Returns:
//   - An error if the file cannot be read or parsed
func (rm *ResourceManager) LoadResourceConfig(configPath string) error {
	data, err := embedded.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read resource config %s: %w", configPath, err)
	}
	return rm.ParseResourceConfig(data)
}

// ParseResourceConfig parses a YAML resource catalogue and rebuilds the ID lookup.
func (rm *ResourceManager) ParseResourceConfig(data []byte) error {
	var config ResourceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse resource config: %w", err)
	}

	rm.config = &config
	rm.buildResourceMap()
	return nil
}

// buildResourceMap constructs a mapping from resource IDs to full file paths.
//
//	IMAGE_SCENE -> assets/images/scene.png
//	SOUND_HIT1  -> assets/sounds/hit1.ogg
func (rm *ResourceManager) buildResourceMap() {
	rm.resourceMap = make(map[string]string)
	if rm.config == nil {
		return
	}

	for _, group := range rm.config.Groups {
		for _, img := range group.Images {
			fullPath := buildFullPath(rm.config.BasePath, img.Path)
			if filepath.Ext(fullPath) == "" {
				fullPath += ".png"
			}
			rm.resourceMap[img.ID] = fullPath
		}

		for _, sound := range group.Sounds {
			fullPath := buildFullPath(rm.config.BasePath, sound.Path)
			if filepath.Ext(fullPath) == "" {
				fullPath += ".ogg"
			}
			rm.resourceMap[sound.ID] = fullPath
		}

		for _, font := range group.Fonts {
			rm.resourceMap[font.ID] = buildFullPath(rm.config.BasePath, font.Path)
		}
	}
}

// ResolvePath returns the file path registered for a resource ID.
func (rm *ResourceManager) ResolvePath(resourceID string) (string, bool) {
	path, ok := rm.resourceMap[resourceID]
	return path, ok
}

// LoadImage loads an image file and caches it for future use.
// Supported formats: PNG and JPEG.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	file, err := embedded.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// LoadImageByID loads an image resource using its resource ID.
func (rm *ResourceManager) LoadImageByID(resourceID string) (*ebiten.Image, error) {
	path, err := rm.lookup(resourceID)
	if err != nil {
		return nil, err
	}
	return rm.LoadImage(path)
}

// LoadCuePlayer implements game.AudioSource. The player plays once.
func (rm *ResourceManager) LoadCuePlayer(resourceID string) (game.AudioPlayer, error) {
	return rm.loadPlayer(resourceID, false)
}

// LoadLoopPlayer implements game.AudioSource. The player loops forever.
func (rm *ResourceManager) LoadLoopPlayer(resourceID string) (game.AudioPlayer, error) {
	return rm.loadPlayer(resourceID, true)
}

// loadPlayer decodes an audio resource into a player.
// Supported formats: OGG Vorbis (.ogg), MP3 (.mp3), WAV (.wav) and Sun audio (.au).
func (rm *ResourceManager) loadPlayer(resourceID string, loop bool) (game.AudioPlayer, error) {
	key := playerKey{id: resourceID, loop: loop}
	if player, exists := rm.playerCache[key]; exists {
		return player, nil
	}
	if rm.audioContext == nil {
		return nil, fmt.Errorf("audio context not available for %s", resourceID)
	}

	path, err := rm.lookup(resourceID)
	if err != nil {
		return nil, err
	}

	audioData, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}

	stream, err := decodeAudio(path, audioData, rm.audioContext.SampleRate())
	if err != nil {
		return nil, err
	}

	var source io.Reader = stream
	if loop {
		source = audio.NewInfiniteLoop(stream, stream.Length())
	}

	player, err := rm.audioContext.NewPlayer(source)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.playerCache[key] = player
	return player, nil
}

func decodeAudio(path string, data []byte, sampleRate int) (decodedStream, error) {
	reader := bytes.NewReader(data)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ogg":
		stream, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG %s: %w", path, err)
		}
		return stream, nil
	case ".mp3":
		stream, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 %s: %w", path, err)
		}
		return stream, nil
	case ".wav":
		stream, err := wav.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV %s: %w", path, err)
		}
		return stream, nil
	case ".au":
		stream, err := au.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode AU %s: %w", path, err)
		}
		return stream, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .ogg, .mp3, .wav, .au)", ext)
	}
}

// LoadFont loads a font face by resource ID and size, falling back to the
// bundled Go Regular face when the font asset is missing.
func (rm *ResourceManager) LoadFont(resourceID string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", resourceID, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	fontData := goregular.TTF
	if path, ok := rm.resourceMap[resourceID]; ok {
		if data, err := embedded.ReadFile(path); err == nil {
			fontData = data
		}
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", resourceID, err)
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

func (rm *ResourceManager) lookup(resourceID string) (string, error) {
	if rm.config == nil {
		return "", fmt.Errorf("resource config not loaded - call LoadResourceConfig first")
	}
	path, exists := rm.resourceMap[resourceID]
	if !exists {
		return "", fmt.Errorf("resource ID not found: %s", resourceID)
	}
	return path, nil
}
