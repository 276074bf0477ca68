package entity

type SessionState struct {
	SessionID       string
	MovementCounter int
	VoiceCounter    int
	LastHeadPose    *HeadPose
}

func (s *SessionState) Clear() {
	s.MovementCounter = 0
	s.VoiceCounter = 0
	s.LastHeadPose = nil
}
