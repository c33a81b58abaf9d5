// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID      = "request_id"
	FieldClientID       = "client_id"
	FieldVideoID        = "video_id"
	FieldClipID         = "clip_id"
	FieldNotificationID = "notification_id"

	// Process / flow fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldFlow      = "flow"
	FieldCount     = "count"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// HTTP fields
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldDuration = "duration"
)
