package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"server/internal/domain"
)

const (
	maxUploadBytes    = 5 << 20
	maxMultipartBytes = 6 << 20
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// PodcastsSubmitCustomImage is the multipart submission variant: the user
// supplies their own baby image instead of an ethnicity/hair pair. The
// image lands in object storage first; admission then runs exactly as for
// the JSON path with appearance mode custom_image (or portrait).
func (a *App) PodcastsSubmitCustomImage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Uploads == nil {
		a.error(w, http.StatusInternalServerError, "internal", "upload storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}

	mode := domain.AppearanceCustomImage
	if m := r.FormValue("appearanceMode"); m != "" {
		mode = domain.AppearanceMode(m)
		if mode != domain.AppearanceCustomImage && mode != domain.AppearancePortrait {
			a.error(w, http.StatusBadRequest, "bad_request", "appearanceMode must be custom_image or portrait")
			return
		}
	}

	file, header, err := r.FormFile("customBabyImage")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read image file")
		return
	}
	if len(data) > maxUploadBytes {
		a.error(w, http.StatusBadRequest, "bad_request", "image exceeds the 5MB limit")
		return
	}
	contentType := http.DetectContentType(data)
	if _, ok := allowedImageTypes[contentType]; !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "image must be JPEG, PNG or WebP")
		return
	}

	key := uploadKey(userID, header.Filename, allowedImageTypes[contentType])
	imageURL, err := a.Uploads.Put(r.Context(), key, data, contentType)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("image upload failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store image")
		return
	}

	sub := domain.Submission{
		Appearance: domain.Appearance{Mode: mode, ImageURL: imageURL},
		Content: domain.Content{
			Mode:  domain.ContentTopic,
			Topic: strings.TrimSpace(r.FormValue("topic")),
		},
		Resolution:  domain.Resolution(r.FormValue("videoResolution")),
		AspectRatio: domain.AspectRatio(r.FormValue("aspectRatio")),
	}
	if script := strings.TrimSpace(r.FormValue("script")); script != "" {
		sub.Content = domain.Content{Mode: domain.ContentScript, Script: script, Topic: sub.Content.Topic}
	}
	if err := sub.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	a.admitAndRespond(w, r, userID, sub)
}

func uploadKey(userID, original, fallbackExt string) string {
	name := strings.ToLower(unsafeKeyChars.ReplaceAllString(filepath.Base(original), ""))
	if name == "" || name == "." {
		name = "image" + fallbackExt
	}
	return fmt.Sprintf("user_%s/%d_%s", userID, time.Now().UnixMilli(), name)
}
