// Package main provides a headless timeline tool for the investigation story.
//
// It plays a scripted click sequence against the embedded story without
// opening a window or touching audio, and prints every scene, narration,
// cue and ambience event with its scheduler time.
//
// Usage:
//
//	go run ./cmd/verify_story [flags]
//
// Flags:
//
//	--clicks <list>   Comma separated clicks. A hotspot ID activates that
//	                  hotspot, "bg" clicks the background. Prefix a click
//	                  with "+" to fire it without waiting (default:
//	                  "begin,shoe,bg,ring,bg,purse,id_card,bg")
//	--wait <dur>      Simulated time between clicks (default: 3s)
//	--scene <id>      Start scene (default: the story's initial scene)
//	--story <path>    Story file on disk (default: ./data/story.yaml)
//	--verbose         Enable verbose logging
//
// Purpose:
//   - Check fade/text/typewriter timings without running the game
//   - Reproduce rapid-click behaviour with "+" clicks
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/decker502/casefile/pkg/config"
	"github.com/decker502/casefile/pkg/embedded"
	"github.com/decker502/casefile/pkg/game"
)

const frameTime = time.Second / 60

var (
	clicksFlag  = flag.String("clicks", "begin,shoe,bg,ring,bg,purse,id_card,bg", "Comma separated hotspot IDs; \"bg\" clicks the background, \"+\" prefix skips the wait")
	waitFlag    = flag.Duration("wait", 3*time.Second, "Simulated time between clicks")
	sceneFlag   = flag.String("scene", "", "Start scene")
	storyFlag   = flag.String("story", "", "Story YAML on disk (default: ./data/story.yaml)")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

// timelineAudio prints audio calls instead of playing them.
type timelineAudio struct {
	scheduler func() time.Duration
}

func (a *timelineAudio) PlayCue(name string) {
	fmt.Printf("%8s  audio     play %s\n", formatAt(a.scheduler()), name)
}

func (a *timelineAudio) SetAmbienceLevel(trackID string, volume float64) {
	fmt.Printf("%8s  audio     %s -> %.2f\n", formatAt(a.scheduler()), trackID, volume)
}

func (a *timelineAudio) StopAll() {
	fmt.Printf("%8s  audio     stop all\n", formatAt(a.scheduler()))
}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	story, err := loadStory(*storyFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load story: %v\n", err)
		os.Exit(1)
	}

	audio := &timelineAudio{}
	exp := game.NewExperience(story, audio)
	audio.scheduler = exp.Scheduler().Now
	exp.Scenes().SetObserver(printEvent)

	if err := exp.Start(config.SceneID(*sceneFlag)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	for _, click := range strings.Split(*clicksFlag, ",") {
		click = strings.TrimSpace(click)
		if click == "" {
			continue
		}
		if strings.HasPrefix(click, "+") {
			click = strings.TrimPrefix(click, "+")
		} else {
			advance(exp, *waitFlag)
		}

		ev := game.PointerEvent{HotspotID: click}
		if click == "bg" {
			ev.HotspotID = ""
		}
		fmt.Printf("%8s  click     %s\n", formatAt(exp.Scheduler().Now()), click)
		if err := exp.Dispatch(ev); err != nil {
			fmt.Printf("%8s  rejected  %v\n", formatAt(exp.Scheduler().Now()), err)
		}
	}
	advance(exp, *waitFlag)

	state := exp.Scenes().State()
	fmt.Printf("\nFinal scene: %s\n", state.CurrentScene)
	fmt.Printf("Overlay text: %q\n", state.OverlayTextRevealed)
	fmt.Printf("Special overlay revealed: %v\n", state.SpecialOverlayRevealed)
	exp.Close()
}

func loadStory(path string) (*config.StoryConfig, error) {
	if path == "" {
		embedded.Init(nil, os.DirFS("."))
		return config.LoadStoryConfig(config.StoryConfigPath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return config.ParseStoryConfig(data)
}

// advance steps the experience frame by frame like the game loop does.
func advance(exp *game.Experience, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frameTime {
		exp.Update(frameTime.Seconds())
	}
}

func printEvent(ev game.Event) {
	detail := string(ev.Scene)
	switch ev.Kind {
	case game.EventOverlayText, game.EventCuePlayed:
		detail = fmt.Sprintf("%s %q", ev.Scene, ev.Text)
	case game.EventAmbience:
		detail = fmt.Sprintf("%s %s=%.2f", ev.Scene, ev.Text, ev.Volume)
	case game.EventTransitionRejected:
		detail = fmt.Sprintf("%s (%v)", ev.Scene, ev.Err)
	}
	fmt.Printf("%8s  %-9s %s\n", formatAt(ev.At), shortKind(ev.Kind), detail)
}

func shortKind(k game.EventKind) string {
	s := k.String()
	if len(s) > 9 {
		s = s[:9]
	}
	return s
}

func formatAt(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
