// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package shorts

import (
	"errors"
	"fmt"
)

// Feature is a clip capability tag from a closed set.
type Feature string

const (
	FeatureCaptions Feature = "captions"
	FeatureVertical Feature = "9:16"
	FeatureHashtags Feature = "hashtags"
)

// ErrUnknownFeature is returned for tags outside the closed set.
var ErrUnknownFeature = errors.New("unknown feature tag")

// Badge is the icon and label shown for a feature tag.
type Badge struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

var badges = map[Feature]Badge{
	FeatureCaptions: {Icon: "fas fa-closed-captioning", Label: "Captions"},
	FeatureVertical: {Icon: "fas fa-crop", Label: "9:16"},
	FeatureHashtags: {Icon: "fas fa-hashtag", Label: "Tags"},
}

// Badge maps the tag to its icon and label.
func (f Feature) Badge() (Badge, error) {
	b, ok := badges[f]
	if !ok {
		return Badge{}, fmt.Errorf("%w: %q", ErrUnknownFeature, string(f))
	}
	return b, nil
}
