package domain

import (
	"errors"
	"strings"
	"testing"
)

func validSubmission() Submission {
	return Submission{
		Appearance:  Appearance{Mode: AppearanceGenerated, Ethnicity: "asian", Hair: "curly"},
		Content:     Content{Mode: ContentTopic, Topic: "why the sky is blue"},
		Resolution:  Resolution540p,
		AspectRatio: AspectVertical,
	}
}

func TestSubmissionValidateAccepted(t *testing.T) {
	cases := map[string]func(*Submission){
		"generated_topic": func(s *Submission) {},
		"custom_ethnicity_within_limit": func(s *Submission) {
			s.Appearance.Ethnicity = "mixed heritage"
		},
		"custom_image": func(s *Submission) {
			s.Appearance = Appearance{Mode: AppearanceCustomImage, ImageURL: "https://cdn.example.com/baby.png"}
		},
		"portrait": func(s *Submission) {
			s.Appearance = Appearance{Mode: AppearancePortrait, ImageURL: "https://cdn.example.com/me.jpg"}
		},
		"script": func(s *Submission) {
			s.Content = Content{Mode: ContentScript, Script: "welcome back to the show"}
		},
		"audio": func(s *Submission) {
			s.Content = Content{Mode: ContentAudio, AudioURL: "https://cdn.example.com/clip.mp3", Topic: "intro"}
		},
		"720p_wide": func(s *Submission) {
			s.Resolution = Resolution720p
			s.AspectRatio = AspectWide
		},
	}
	for name, mutate := range cases {
		s := validSubmission()
		mutate(&s)
		if err := s.Validate(); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
	}
}

func TestSubmissionValidateRejected(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Submission)
		field  string
	}{
		"missing_ethnicity": {func(s *Submission) { s.Appearance.Ethnicity = "" }, "ethnicity"},
		"missing_hair":      {func(s *Submission) { s.Appearance.Hair = "" }, "hair"},
		"long_custom_hair": {func(s *Submission) {
			s.Appearance.Hair = strings.Repeat("x", MaxCustomFieldLength+1)
		}, "hair"},
		"bad_appearance_mode": {func(s *Submission) { s.Appearance.Mode = "hologram" }, "appearance_mode"},
		"image_without_url": {func(s *Submission) {
			s.Appearance = Appearance{Mode: AppearanceCustomImage}
		}, "image_url"},
		"image_with_hair": {func(s *Submission) {
			s.Appearance = Appearance{Mode: AppearancePortrait, ImageURL: "https://x/y.png", Hair: "bob"}
		}, "ethnicity"},
		"missing_topic": {func(s *Submission) { s.Content.Topic = " " }, "topic"},
		"long_topic": {func(s *Submission) {
			s.Content.Topic = strings.Repeat("a", MaxTopicLength+1)
		}, "topic"},
		"bad_content_mode": {func(s *Submission) { s.Content.Mode = "telepathy" }, "content_mode"},
		"script_missing": {func(s *Submission) {
			s.Content = Content{Mode: ContentScript}
		}, "script"},
		"audio_missing": {func(s *Submission) {
			s.Content = Content{Mode: ContentAudio}
		}, "audio_url"},
		"bad_resolution": {func(s *Submission) { s.Resolution = "1080p" }, "video_resolution"},
		"bad_aspect":     {func(s *Submission) { s.AspectRatio = "4:3" }, "aspect_ratio"},
	}
	for name, tc := range cases {
		s := validSubmission()
		tc.mutate(&s)
		err := s.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected *ValidationError, got %T", name, err)
			continue
		}
		if verr.Field != tc.field {
			t.Errorf("%s: field = %q, want %q", name, verr.Field, tc.field)
		}
	}
}

func TestCreditCostDoublesFor720p(t *testing.T) {
	s := validSubmission()
	if got := s.CreditCost(10); got != 10 {
		t.Fatalf("540p cost = %d, want 10", got)
	}
	s.Resolution = Resolution720p
	if got := s.CreditCost(10); got != 20 {
		t.Fatalf("720p cost = %d, want 20", got)
	}
}
