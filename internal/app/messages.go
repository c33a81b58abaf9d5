// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package app

import "fmt"

// User-facing texts.
const (
	msgAnalyzing         = "Analyzing video..."
	msgGenerating        = "AI is analyzing video content..."
	msgPreparingDownload = "Preparing download..."
	msgInvalidURL        = "Please enter a valid YouTube URL"
	msgFetchFailed       = "Failed to load video. Please try again."
	msgNoVideo           = "Please select a video first"
	msgProcessFailed     = "Failed to process video. Please try again."
	msgShortNotFound     = "Short not found"
	msgExampleNotFound   = "Example not found"
	msgPasted            = "URL pasted successfully!"
	msgClipboardInvalid  = "Clipboard does not contain a valid YouTube URL"
	msgClipboardFailed   = "Failed to read clipboard. Please paste manually."
	msgThemeSaveFailed   = "Failed to save theme. Please try again."
	msgDownloadFailed    = "Download failed. Please try again."
)

func msgGenerated(n int) string         { return fmt.Sprintf("Successfully generated %d shorts!", n) }
func msgPreviewing(title string) string { return `Previewing "` + title + `"` }
func msgEditing(title string) string    { return `Opening editor for "` + title + `"` }
func msgDownloaded(title string) string { return `"` + title + `" downloaded successfully! 🎉` }
