package domain

import (
	"fmt"
	"strings"
)

// AppearanceMode selects how the baby host's look is produced.
type AppearanceMode string

const (
	// AppearanceGenerated asks the worker to synthesize a baby portrait
	// from an ethnicity/hair pair.
	AppearanceGenerated AppearanceMode = "generated"
	// AppearanceCustomImage uses an image the user uploaded as-is.
	AppearanceCustomImage AppearanceMode = "custom_image"
	// AppearancePortrait converts an uploaded adult portrait into a baby.
	AppearancePortrait AppearanceMode = "portrait"
)

// ContentMode selects where the podcast's spoken content comes from.
type ContentMode string

const (
	ContentTopic  ContentMode = "topic"
	ContentScript ContentMode = "script"
	ContentAudio  ContentMode = "audio"
)

// Resolution enumerates supported output resolutions.
type Resolution string

const (
	Resolution540p Resolution = "540p"
	Resolution720p Resolution = "720p"
)

// AspectRatio enumerates supported output aspect ratios.
type AspectRatio string

const (
	AspectSquare   AspectRatio = "1:1"
	AspectWide     AspectRatio = "16:9"
	AspectVertical AspectRatio = "9:16"
)

const (
	MaxTopicLength  = 100
	MaxScriptLength = 5000
	// MaxCustomFieldLength bounds free-text ethnicity/hair values.
	MaxCustomFieldLength = 50
)

var ethnicityOptions = map[string]struct{}{
	"asian":                  {},
	"middle_eastern":         {},
	"black_african_american": {},
	"white_caucasian":        {},
}

var hairOptions = map[string]struct{}{
	"bald":     {},
	"curly":    {},
	"ponytail": {},
	"crew_cut": {},
	"bob":      {},
	"bun":      {},
	"straight": {},
}

// Appearance is the tagged union over appearance sources. Exactly the
// fields belonging to Mode are set; the rest stay zero.
type Appearance struct {
	Mode      AppearanceMode
	Ethnicity string // generated only
	Hair      string // generated only
	ImageURL  string // custom_image and portrait
}

// Content is the tagged union over content sources.
type Content struct {
	Mode     ContentMode
	Topic    string // topic only; also carried as a hint for audio/script
	Script   string // script only
	AudioURL string // audio only
}

// Submission is a fully validated admission input.
type Submission struct {
	Appearance  Appearance
	Content     Content
	Resolution  Resolution
	AspectRatio AspectRatio
}

// Validate checks every field against its allowed value set. It returns a
// *ValidationError naming the offending field so handlers can echo it.
func (s *Submission) Validate() error {
	switch s.Resolution {
	case Resolution540p, Resolution720p:
	default:
		return invalid("video_resolution", `must be "540p" or "720p"`)
	}
	switch s.AspectRatio {
	case AspectSquare, AspectWide, AspectVertical:
	default:
		return invalid("aspect_ratio", `must be "1:1", "16:9" or "9:16"`)
	}
	if err := s.Appearance.validate(); err != nil {
		return err
	}
	return s.Content.validate()
}

func (a *Appearance) validate() error {
	switch a.Mode {
	case AppearanceGenerated:
		eth := strings.TrimSpace(a.Ethnicity)
		if eth == "" {
			return invalid("ethnicity", "required")
		}
		if _, ok := ethnicityOptions[eth]; !ok && len(eth) > MaxCustomFieldLength {
			return invalid("ethnicity", fmt.Sprintf("custom value exceeds %d characters", MaxCustomFieldLength))
		}
		hair := strings.TrimSpace(a.Hair)
		if hair == "" {
			return invalid("hair", "required")
		}
		if _, ok := hairOptions[hair]; !ok && len(hair) > MaxCustomFieldLength {
			return invalid("hair", fmt.Sprintf("custom value exceeds %d characters", MaxCustomFieldLength))
		}
		if a.ImageURL != "" {
			return invalid("image_url", "not allowed in generated mode")
		}
	case AppearanceCustomImage, AppearancePortrait:
		if strings.TrimSpace(a.ImageURL) == "" {
			return invalid("image_url", "required")
		}
		if a.Ethnicity != "" || a.Hair != "" {
			return invalid("ethnicity", "not allowed with an uploaded image")
		}
	default:
		return invalid("appearance_mode", `must be "generated", "custom_image" or "portrait"`)
	}
	return nil
}

func (c *Content) validate() error {
	topic := strings.TrimSpace(c.Topic)
	switch c.Mode {
	case ContentTopic:
		if topic == "" {
			return invalid("topic", "required")
		}
		if len(topic) > MaxTopicLength {
			return invalid("topic", fmt.Sprintf("exceeds %d characters", MaxTopicLength))
		}
		if c.Script != "" || c.AudioURL != "" {
			return invalid("content_mode", "script and audio_url not allowed in topic mode")
		}
	case ContentScript:
		script := strings.TrimSpace(c.Script)
		if script == "" {
			return invalid("script", "required")
		}
		if len(script) > MaxScriptLength {
			return invalid("script", fmt.Sprintf("exceeds %d characters", MaxScriptLength))
		}
		if c.AudioURL != "" {
			return invalid("audio_url", "not allowed in script mode")
		}
	case ContentAudio:
		if strings.TrimSpace(c.AudioURL) == "" {
			return invalid("audio_url", "required")
		}
		if c.Script != "" {
			return invalid("script", "not allowed in audio mode")
		}
	default:
		return invalid("content_mode", `must be "topic", "script" or "audio"`)
	}
	if len(topic) > MaxTopicLength {
		return invalid("topic", fmt.Sprintf("exceeds %d characters", MaxTopicLength))
	}
	return nil
}

// CreditCost returns the credits consumed by admitting this submission.
// The multiplier is applied before the atomic reserve, never after.
func (s *Submission) CreditCost(baseCost int) int {
	if s.Resolution == Resolution720p {
		return baseCost * 2
	}
	return baseCost
}

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
