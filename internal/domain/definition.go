package domain

// IconKind selects how a definition icon is drawn
type IconKind string

const (
	IconTexture IconKind = "texture"
	IconItem    IconKind = "item"
	IconEffect  IconKind = "effect"
)

// Icon is a tagged union; Ref is a texture path, item id or status effect id
// depending on Kind
type Icon struct {
	Kind IconKind `json:"kind"`
	Ref  string   `json:"ref"`
}

// FrameKind selects how the frame around a node is drawn
type FrameKind string

const (
	FrameAdvancement FrameKind = "advancement"
	FrameTexture     FrameKind = "texture"
)

// AdvancementFrame is the shape of a built-in advancement style frame
type AdvancementFrame string

const (
	AdvancementTask      AdvancementFrame = "task"
	AdvancementGoal      AdvancementFrame = "goal"
	AdvancementChallenge AdvancementFrame = "challenge"
)

// Frame describes the node frame.
//
// Advancement frames have one texture per obtained status. Texture frames name
// one texture per state; Available and Unlocked are required, the rest fall
// back to Available.
type Frame struct {
	Kind        FrameKind        `json:"kind"`
	Advancement AdvancementFrame `json:"advancement,omitempty"`

	Locked     string `json:"locked,omitempty"`
	Available  string `json:"available,omitempty"`
	Affordable string `json:"affordable,omitempty"`
	Unlocked   string `json:"unlocked,omitempty"`
	Excluded   string `json:"excluded,omitempty"`
}

// DefaultFrame is used when a definition does not name one
func DefaultFrame() Frame {
	return Frame{Kind: FrameAdvancement, Advancement: AdvancementTask}
}

// Texture returns the texture to draw for the given state and the tint to
// apply to it. Advancement frames resolve to "advancement/<frame>_obtained" or
// "advancement/<frame>_unobtained".
func (f Frame) Texture(state State) (string, Color) {
	if f.Kind == FrameTexture {
		pick := func(tex string) (string, Color) {
			if tex != "" {
				return tex, ColorWhite
			}
			if state.IsBlocked() {
				return f.Available, ColorGray
			}
			return f.Available, ColorWhite
		}
		switch state {
		case StateLocked:
			return pick(f.Locked)
		case StateAffordable:
			return pick(f.Affordable)
		case StateExcluded:
			return pick(f.Excluded)
		case StateUnlocked:
			return f.Unlocked, ColorWhite
		default:
			return f.Available, ColorWhite
		}
	}

	frame := f.Advancement
	if frame == "" {
		frame = AdvancementTask
	}
	status := "unobtained"
	if state == StateUnlocked {
		status = "obtained"
	}
	return "advancement/" + string(frame) + "_" + status, StateTint(state)
}

// StateTint is the tint applied to advancement frames and path nodes
func StateTint(state State) Color {
	switch state {
	case StateLocked, StateExcluded:
		return ColorGray
	case StateAvailable:
		return ColorAvailable
	default:
		return ColorWhite
	}
}

// Reward is granted when a node is unlocked; Data is reward specific
type Reward struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Definition is the shared template referenced by one or more nodes
type Definition struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	ExtraDescription string   `json:"extra_description,omitempty"`
	Icon             Icon     `json:"icon"`
	Frame            Frame    `json:"frame"`
	Size             float64  `json:"size"`
	Rewards          []Reward `json:"rewards,omitempty"`

	Cost                int `json:"cost"`
	RequiredSkills      int `json:"required_skills"`
	RequiredPoints      int `json:"required_points"`
	RequiredSpentPoints int `json:"required_spent_points"`
	RequiredExclusions  int `json:"required_exclusions"`
}

// NewDefinition creates a definition with the defaults the loader applies
func NewDefinition(id, title string) *Definition {
	return &Definition{
		ID:    id,
		Title: title,
		Icon:  Icon{Kind: IconTexture},
		Frame: DefaultFrame(),
		Size:  1,
		Cost:  1,
	}
}

// SizeOrDefault returns the size multiplier, treating non-positive values as 1
func (d *Definition) SizeOrDefault() float64 {
	if d == nil || d.Size <= 0 {
		return 1
	}
	return d.Size
}
