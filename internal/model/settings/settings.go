package settings

// Speaking rate bounds exposed by the client's speed slider. The store clamps
// updates to the same range so persisted state can never drift outside it.
const (
	MinSpeakingRate = 0.6
	MaxSpeakingRate = 1.4
)

// Settings is the session-wide assistant configuration.
type Settings struct {
	AssistantName string  `json:"assistantName"`
	VoiceID       string  `json:"voiceId,omitempty"`
	SpeakingRate  float64 `json:"speakingRate"`
}

// Partial carries an update where nil fields mean "leave unchanged".
type Partial struct {
	AssistantName *string  `json:"assistantName,omitempty"`
	VoiceID       *string  `json:"voiceId,omitempty"`
	SpeakingRate  *float64 `json:"speakingRate,omitempty"`
}

// Defaults returns the out-of-the-box configuration.
func Defaults() Settings {
	return Settings{
		AssistantName: "Panda",
		VoiceID:       "",
		SpeakingRate:  1.0,
	}
}

// merge applies the partial on top of s, filling gaps from defaults and
// clamping the speaking rate.
func (s Settings) merge(update Partial) Settings {
	next := s.normalized()
	if update.AssistantName != nil {
		next.AssistantName = *update.AssistantName
	}
	if update.VoiceID != nil {
		next.VoiceID = *update.VoiceID
	}
	if update.SpeakingRate != nil {
		next.SpeakingRate = *update.SpeakingRate
	}
	return next.normalized()
}

// normalized fills missing fields from defaults and clamps the rate, so a
// malformed persisted blob still yields a fully populated value.
func (s Settings) normalized() Settings {
	defaults := Defaults()
	if s.AssistantName == "" {
		s.AssistantName = defaults.AssistantName
	}
	if s.SpeakingRate == 0 {
		s.SpeakingRate = defaults.SpeakingRate
	}
	if s.SpeakingRate < MinSpeakingRate {
		s.SpeakingRate = MinSpeakingRate
	}
	if s.SpeakingRate > MaxSpeakingRate {
		s.SpeakingRate = MaxSpeakingRate
	}
	return s
}
