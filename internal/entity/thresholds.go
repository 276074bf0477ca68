package entity

type Thresholds struct {
	PitchDegrees       float64  `yaml:"pitch_degrees"`
	YawDegrees         float64  `yaml:"yaw_degrees"`
	RollDegrees        float64  `yaml:"roll_degrees"`
	MovementFrameLimit int      `yaml:"movement_frame_limit"`
	VoiceFrameLimit    int      `yaml:"voice_frame_limit"`
	TargetObjects      []string `yaml:"target_objects"`
	TextMediumCut      float64  `yaml:"text_medium_cut"`
	TextHighCut        float64  `yaml:"text_high_cut"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PitchDegrees:       20,
		YawDegrees:         20,
		RollDegrees:        15,
		MovementFrameLimit: 5,
		VoiceFrameLimit:    3,
		TargetObjects:      []string{"cell phone", "book", "laptop"},
		TextMediumCut:      0.4,
		TextHighCut:        0.7,
	}
}

func (t Thresholds) IsTargetObject(label string) bool {
	for _, target := range t.TargetObjects {
		if target == label {
			return true
		}
	}
	return false
}
