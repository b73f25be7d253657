package media

import (
	"fmt"
	"strings"
	"time"
)

// SubtitleStyle describes how burned-in subtitles are rendered.
type SubtitleStyle struct {
	FontSize  int
	FontColor string
}

// namedColors maps the colour names the API accepts to RGB values.
var namedColors = map[string]uint32{
	"white":  0xFFFFFF,
	"black":  0x000000,
	"red":    0xFF0000,
	"green":  0x00FF00,
	"blue":   0x0000FF,
	"yellow": 0xFFFF00,
	"cyan":   0x00FFFF,
}

// ForceStyle renders the style as an ASS force_style value. ASS colours are
// &HBBGGRR& (byte-reversed RGB).
func (s SubtitleStyle) ForceStyle() string {
	size := s.FontSize
	if size <= 0 {
		size = 24
	}
	return fmt.Sprintf("FontSize=%d,PrimaryColour=%s,Alignment=2,MarginV=40", size, assColor(s.FontColor))
}

func assColor(name string) string {
	rgb, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		rgb = 0xFFFFFF
	}
	r := (rgb >> 16) & 0xFF
	g := (rgb >> 8) & 0xFF
	b := rgb & 0xFF
	return fmt.Sprintf("&H%02X%02X%02X&", b, g, r)
}

// SingleCueSRT builds a minimal SRT document with one cue spanning the whole
// clip.
func SingleCueSRT(text string, duration time.Duration) string {
	return fmt.Sprintf("1\n00:00:00,000 --> %s\n%s\n", srtTimestamp(duration), strings.TrimSpace(text))
}

func srtTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := d.Milliseconds()
	ms := total % 1000
	sec := (total / 1000) % 60
	min := (total / 60000) % 60
	hour := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hour, min, sec, ms)
}
