// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by flow spans.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	FlowKey       = "shortify.flow"
	ClientIDKey   = "shortify.client_id"
	VideoIDKey    = "shortify.video_id"
	ClipIDKey     = "shortify.clip_id"
	ClipCountKey  = "shortify.clip_count"
	ActionKey     = "shortify.action"
	ThemeKey      = "shortify.theme"
	OptionKeyBase = "shortify.option."

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// VideoAttributes tags a span with the session and video.
func VideoAttributes(clientID, videoID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if clientID != "" {
		attrs = append(attrs, attribute.String(ClientIDKey, clientID))
	}
	if videoID != "" {
		attrs = append(attrs, attribute.String(VideoIDKey, videoID))
	}
	return attrs
}

// OptionAttributes records the processing toggles by name.
func OptionAttributes(options map[string]bool) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(options))
	for name, on := range options {
		attrs = append(attrs, attribute.Bool(OptionKeyBase+name, on))
	}
	return attrs
}

// ClipAttributes tags a clip action span.
func ClipAttributes(clipID int, action string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(ClipIDKey, clipID),
		attribute.String(ActionKey, action),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
