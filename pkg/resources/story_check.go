package resources

import (
	"fmt"
	"sort"

	"github.com/decker502/casefile/pkg/config"
	"github.com/decker502/casefile/pkg/embedded"
)

// StoryResourceIDs 收集故事引用的全部资源ID（去重、排序）
// 包括背景、揭示后背景、特殊叠加图、音效和环境音轨
func StoryResourceIDs(story *config.StoryConfig) []string {
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" {
			seen[id] = true
		}
	}

	for _, id := range story.SceneIDs() {
		scene, _ := story.Scene(id)
		add(scene.Background)
		add(scene.RevealedBackground)
		add(scene.SpecialOverlay)
		for _, h := range scene.Hotspots {
			add(h.Cue)
		}
	}
	for _, cue := range story.Cues {
		add(cue)
	}
	for _, track := range story.Ambience.Tracks {
		add(track.ID)
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CheckStory 检查故事引用的资源是否都已在资源配置中声明
//
// 参数：
//   - story: 已校验的故事数据
//   - checkFiles: 是否同时检查素材文件存在
//
// 返回：
//   - []string: 问题列表，为空表示全部通过
func (rm *ResourceManager) CheckStory(story *config.StoryConfig, checkFiles bool) []string {
	var problems []string
	for _, id := range StoryResourceIDs(story) {
		path, ok := rm.ResolvePath(id)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: not declared in resource config", id))
			continue
		}
		if checkFiles && !embedded.Exists(path) {
			problems = append(problems, fmt.Sprintf("%s: file %s not found", id, path))
		}
	}
	return problems
}
