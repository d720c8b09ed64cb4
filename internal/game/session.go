package game

// ModelSettings is the fixed request configuration stored alongside the
// transcript in save files.
type ModelSettings struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	Stream      bool
}

func DefaultModelSettings() ModelSettings {
	return ModelSettings{
		Model:       "meta-llama-3.1-8b-instruct",
		Temperature: 0.7,
		MaxTokens:   -1,
		Stream:      false,
	}
}

// SessionRecord is the persisted form of a session.
type SessionRecord struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int64     `json:"max_tokens"`
	Stream      bool      `json:"stream"`
	X           int       `json:"x"`
	Y           int       `json:"y"`
	Location    string    `json:"location"`
}

// Session holds the transcript, the player's position and the description
// of the place the player was last resolved to. The transcript only grows.
type Session struct {
	transcript []Message
	position   Coordinate
	location   string
}

func NewSession() *Session {
	return &Session{
		transcript: []Message{{Role: RoleSystem, Content: Preamble}},
	}
}

func (s *Session) AppendSystem(text string) {
	s.transcript = append(s.transcript, Message{Role: RoleSystem, Content: text})
}

func (s *Session) AppendUser(text string) {
	s.transcript = append(s.transcript, Message{Role: RoleUser, Content: text})
}

func (s *Session) AppendAssistant(msg Message) {
	s.transcript = append(s.transcript, msg)
}

func (s *Session) appendAll(msgs []Message) {
	s.transcript = append(s.transcript, msgs...)
}

func (s *Session) Move(d Direction) {
	s.position = s.position.Step(d)
}

// LocationChanged reports whether description differs from the location the
// session currently holds.
func (s *Session) LocationChanged(description string) bool {
	return description != s.location
}

func (s *Session) Messages() []Message {
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) Len() int {
	return len(s.transcript)
}

func (s *Session) Position() Coordinate {
	return s.position
}

func (s *Session) Location() string {
	return s.location
}

func (s *Session) place(c Coordinate, location string) {
	s.position = c
	s.location = location
}

func (s *Session) Record(settings ModelSettings) SessionRecord {
	return SessionRecord{
		Model:       settings.Model,
		Messages:    s.Messages(),
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
		Stream:      settings.Stream,
		X:           s.position.X,
		Y:           s.position.Y,
		Location:    s.location,
	}
}
